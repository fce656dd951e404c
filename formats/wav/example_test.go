// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/formats/wav"
)

func Example() {
	in := audio.NewMonoBuffer(16000, []float32{0, 0.25, 0.5, -0.5, -1})

	data, err := wav.EncodeBytes(in)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d bytes\n", len(data))

	out, err := wav.DecodeBuffer(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d Hz, %d channel(s), %d frames\n", out.SampleRate(), out.NumChannels(), out.Len())
	fmt.Printf("%.3f\n", out.Channel(0)[4])

	// Output:
	// 54 bytes
	// 16000 Hz, 1 channel(s), 5 frames
	// -1.000
}
