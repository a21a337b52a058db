package media

// Level estimates the loudness of a raw PCM buffer (little-endian signed
// 16-bit samples) as the mean absolute sample magnitude normalized to
// [0, 1]. An empty buffer is silent. A trailing odd byte is ignored.
func Level(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		s := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		if s < 0 {
			// -32768 negates to itself; widen first.
			sum += float64(-int32(s))
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(n) / 32768.0
}

// Silence returns a zero-filled PCM buffer of n bytes. The microphone loop
// substitutes these for live capture while the model is speaking, keeping
// the outbound stream's cadence and chunk size unchanged.
func Silence(n int) []byte {
	return make([]byte, n)
}
