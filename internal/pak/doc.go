// Package pak reads and writes EAGLS engine PAK archives.
//
// An archive is a pair of files: the PAK holding entry data and an IDX of
// the same name holding an encrypted table of fixed-size entries. Entry data
// for .dat scripts and .gr images is additionally scrambled with a keystream
// seeded from the entry's last byte. All ciphers are plain XOR streams, so
// the same functions both encrypt and decrypt.
package pak
