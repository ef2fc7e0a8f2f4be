package apikey

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	key, err := Generate("cn_live_")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "cn_live_"))
	assert.Len(t, key, len("cn_live_")+secretLength)
	for _, r := range strings.TrimPrefix(key, "cn_live_") {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}

	other, err := Generate("cn_live_")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestGenerate_SkipsBiasedBytes(t *testing.T) {
	// 全部 >= 248 的 byte 會被跳過，之後的 0x00 對應 '0'
	src := append(bytes.Repeat([]byte{0xFF}, secretLength*2), bytes.Repeat([]byte{0x00}, secretLength*2)...)
	key, err := generateFrom(bytes.NewReader(src), "k_")
	require.NoError(t, err)
	assert.Equal(t, "k_"+strings.Repeat("0", secretLength), key)
}

func TestGenerate_ReaderError(t *testing.T) {
	_, err := generateFrom(bytes.NewReader(nil), "k_")
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	plain := "cn_live_abc"
	d1 := Digest(plain, "")
	d2 := Digest(plain, "")
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotContains(t, d1, plain)

	// 已知向量：sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Digest("abc", ""))

	peppered := Digest(plain, "secret")
	assert.NotEqual(t, d1, peppered)
	assert.Equal(t, peppered, Digest(plain, "secret"))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "cn_live_AbCd****", Mask("cn_live_AbCdEfGh", "cn_live_"))
	assert.Equal(t, "xyzw****", Mask("xyzwvuts", "cn_live_"))
	assert.Equal(t, "", Mask("", "cn_live_"))
	assert.Equal(t, "cn_live_", DisplayPrefix("cn_live_", "cn_live_"))
}
