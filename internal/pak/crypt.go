package pak

import "strings"

const (
	// IndexKey scrambles the IDX entry table.
	IndexKey = "1qaz2wsx3edc4rfv5tgb6yhn7ujm8ik,9ol.0p;/-@:^[]"
	// EntryKey scrambles .dat and .gr entry contents.
	EntryKey = "EAGLS_SYSTEM"

	datTextOffset = 3600
	grCryptLimit  = 0x174b
)

// Kind tells which cipher applies to an entry.
type Kind int

const (
	KindPlain Kind = iota
	KindScript
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "dat"
	case KindImage:
		return "gr"
	default:
		return "plain"
	}
}

// KindOf classifies an entry by the text after the last dot of its name.
func KindOf(name string) Kind {
	ext := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = name[i+1:]
	}
	switch ext {
	case "dat":
		return KindScript
	case "gr":
		return KindImage
	default:
		return KindPlain
	}
}

// CryptIndex applies the index cipher in place. The trailing four bytes
// hold the little-endian seed and are left untouched.
func CryptIndex(data []byte) {
	if len(data) < 4 {
		return
	}
	n := len(data) - 4
	seed := uint32(data[n]) | uint32(data[n+1])<<8 | uint32(data[n+2])<<16 | uint32(data[n+3])<<24
	rng := newCRTRand(seed)
	for i := 0; i < n; i++ {
		data[i] ^= IndexKey[rng.next()%len(IndexKey)]
	}
}

// CryptEntry applies the cipher selected by the entry name in place and
// reports which one was used.
func CryptEntry(name string, data []byte) Kind {
	kind := KindOf(name)
	switch kind {
	case KindScript:
		cryptScript(data)
	case KindImage:
		cryptImage(data)
	}
	return kind
}

// cryptScript scrambles every second byte of the text area. The seed is the
// sign-extended last byte.
func cryptScript(data []byte) {
	if len(data) == 0 {
		return
	}
	rng := newCRTRand(uint32(int32(int8(data[len(data)-1]))))
	textLen := len(data) - datTextOffset - 2
	for i := 0; i < textLen; i += 2 {
		data[datTextOffset+i] ^= EntryKey[rng.next()%len(EntryKey)]
	}
}

// cryptImage scrambles the head of an image, up to grCryptLimit bytes and
// never the seed byte at the end.
func cryptImage(data []byte) {
	if len(data) == 0 {
		return
	}
	rng := newLehmerRand(int32(data[len(data)-1]))
	limit := min(len(data)-1, grCryptLimit)
	for i := 0; i < limit; i++ {
		data[i] ^= EntryKey[rng.next()%len(EntryKey)]
	}
}
