package fingerprint

import "encoding/binary"

const (
	headerSize = 32
	footerSize = 40 // pyramid_2x2 (8 bytes) + pyramid_4x4 (32 bytes)
	bytesPerMB = 8  // mb_type(1) + intra_mode(1) + dc_luma(2) + dc_cb(2) + dc_cr(2)
)

// Len returns the serialized length of f, per spec.md section 4.6:
// 32 + 8*num_mbs + 40.
func (f *Fingerprint) Len() int {
	return headerSize + bytesPerMB*f.NumMBs() + footerSize
}

// Serialize encodes f into the little-endian fixed binary layout of
// spec.md section 4.6.
func Serialize(f *Fingerprint) []byte {
	n := f.NumMBs()
	buf := make([]byte, f.Len())

	binary.LittleEndian.PutUint16(buf[0:2], uint16(f.Width))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(f.Height))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(f.WidthMBs))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(f.HeightMBs))
	buf[8] = f.QPAvg
	binary.LittleEndian.PutUint16(buf[9:11], float32ToF16Bits(f.SkipRatio))
	binary.LittleEndian.PutUint16(buf[11:13], float32ToF16Bits(f.IntraRatio))
	binary.LittleEndian.PutUint16(buf[13:15], uint16(f.DCMean))
	binary.LittleEndian.PutUint16(buf[15:17], float32ToF16Bits(f.DCStd))
	binary.LittleEndian.PutUint16(buf[17:19], float32ToF16Bits(f.EdgeDensity))
	// buf[19:32] stays zero padding.

	off := headerSize
	copy(buf[off:off+n], f.MBTypes)
	off += n
	copy(buf[off:off+n], f.IntraModes)
	off += n

	putI16Slice := func(vals []int16) {
		for i, v := range vals {
			binary.LittleEndian.PutUint16(buf[off+2*i:off+2*i+2], uint16(v))
		}
		off += 2 * n
	}
	putI16Slice(f.DCLuma)
	putI16Slice(f.DCCb)
	putI16Slice(f.DCCr)

	for i, v := range f.Pyramid2x2 {
		binary.LittleEndian.PutUint16(buf[off+2*i:off+2*i+2], uint16(v))
	}
	off += 8
	for i, v := range f.Pyramid4x4 {
		binary.LittleEndian.PutUint16(buf[off+2*i:off+2*i+2], uint16(v))
	}
	off += 32

	return buf
}

// Deserialize decodes a Fingerprint from its little-endian fixed binary
// layout, failing with ErrInvalidData if the length is inconsistent with
// the num_mbs it encodes.
func Deserialize(data []byte) (*Fingerprint, error) {
	if len(data) < headerSize {
		return nil, ErrInvalidData
	}

	f := &Fingerprint{
		Width:     int(binary.LittleEndian.Uint16(data[0:2])),
		Height:    int(binary.LittleEndian.Uint16(data[2:4])),
		WidthMBs:  int(binary.LittleEndian.Uint16(data[4:6])),
		HeightMBs: int(binary.LittleEndian.Uint16(data[6:8])),
		QPAvg:     data[8],
	}
	f.SkipRatio = f16BitsToFloat32(binary.LittleEndian.Uint16(data[9:11]))
	f.IntraRatio = f16BitsToFloat32(binary.LittleEndian.Uint16(data[11:13]))
	f.DCMean = int16(binary.LittleEndian.Uint16(data[13:15]))
	f.DCStd = f16BitsToFloat32(binary.LittleEndian.Uint16(data[15:17]))
	f.EdgeDensity = f16BitsToFloat32(binary.LittleEndian.Uint16(data[17:19]))

	n := f.NumMBs()
	if len(data) != f.Len() {
		return nil, ErrInvalidData
	}

	off := headerSize
	f.MBTypes = append([]byte(nil), data[off:off+n]...)
	off += n
	f.IntraModes = append([]byte(nil), data[off:off+n]...)
	off += n

	readI16Slice := func() []int16 {
		vals := make([]int16, n)
		for i := range vals {
			vals[i] = int16(binary.LittleEndian.Uint16(data[off+2*i : off+2*i+2]))
		}
		off += 2 * n
		return vals
	}
	f.DCLuma = readI16Slice()
	f.DCCb = readI16Slice()
	f.DCCr = readI16Slice()

	for i := range f.Pyramid2x2 {
		f.Pyramid2x2[i] = int16(binary.LittleEndian.Uint16(data[off+2*i : off+2*i+2]))
	}
	off += 8
	for i := range f.Pyramid4x4 {
		f.Pyramid4x4[i] = int16(binary.LittleEndian.Uint16(data[off+2*i : off+2*i+2]))
	}
	off += 32

	return f, nil
}
