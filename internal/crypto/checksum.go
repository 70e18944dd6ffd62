package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ChecksumPrefix tags checksums with the algorithm that produced them
const ChecksumPrefix = "blake2b-256:"

// Checksum returns the tagged BLAKE2b-256 digest of data
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return ChecksumPrefix + hex.EncodeToString(sum[:])
}

// VerifyChecksum checks data against a checksum produced by Checksum
func VerifyChecksum(data []byte, checksum string) error {
	if !strings.HasPrefix(checksum, ChecksumPrefix) {
		return fmt.Errorf("unsupported checksum format")
	}
	expected := Checksum(data)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(checksum)) != 1 {
		return fmt.Errorf("checksum mismatch")
	}
	return nil
}
