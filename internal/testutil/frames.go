package testutil

// OpenFrame returns a JPEG with the exposure of a daylight frame: short
// exposure, high brightness, base ISO. i varies the values slightly.
func OpenFrame(i int) []byte {
	return ExifJPEG(
		Rational(0x829a, 1, uint32(500+10*i)),
		SRational(0x9201, int32(900+i), 100),
		SRational(0x9203, int32(700+5*i), 100),
		Short(0x8827, 100),
	)
}

// ClosedFrame returns a JPEG with the exposure of a frame taken against a
// closed shutter: long exposure, negative brightness, high ISO.
func ClosedFrame(i int) []byte {
	return ExifJPEG(
		Rational(0x829a, 1, uint32(4+i)),
		SRational(0x9201, int32(200+i), 100),
		SRational(0x9203, int32(-300-5*i), 100),
		Short(0x8827, 800),
	)
}
