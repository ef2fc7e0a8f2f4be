package apikey

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	// 32 個 base62 字元 ≈ 190 bits
	secretLength = 32
	alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// 248 = 62*4，超過的 byte 捨棄以避免取模偏差
	maxUnbiasedByte = 248
	displayChars    = 4
)

// Generate 產生 "<prefix><32 base62>" 格式的明文 key
func Generate(prefix string) (string, error) {
	return generateFrom(rand.Reader, prefix)
}

func generateFrom(r io.Reader, prefix string) (string, error) {
	var b strings.Builder
	b.Grow(len(prefix) + secretLength)
	b.WriteString(prefix)

	buf := make([]byte, secretLength*2)
	written := 0
	for written < secretLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, v := range buf {
			if v >= maxUnbiasedByte {
				continue
			}
			b.WriteByte(alphabet[int(v)%len(alphabet)])
			written++
			if written == secretLength {
				break
			}
		}
	}
	return b.String(), nil
}

// Digest 明文 key 的單向摘要（hex）。pepper 為空時是 SHA-256，否則 HMAC-SHA256。
func Digest(plaintext, pepper string) string {
	if pepper == "" {
		sum := sha256.Sum256([]byte(plaintext))
		return hex.EncodeToString(sum[:])
	}
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// DisplayPrefix 保留前綴加上前幾個字元，供營運辨識；不足以還原 key
func DisplayPrefix(plaintext, prefix string) string {
	n := len(prefix) + displayChars
	if !strings.HasPrefix(plaintext, prefix) {
		n = displayChars
	}
	if len(plaintext) <= n {
		return plaintext
	}
	return plaintext[:n]
}

// Mask 給 log 使用：cn_live_AbCd****
func Mask(plaintext, prefix string) string {
	if plaintext == "" {
		return ""
	}
	return DisplayPrefix(plaintext, prefix) + "****"
}
