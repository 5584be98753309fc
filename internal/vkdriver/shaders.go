package vkdriver

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	//go:embed shaders/quad.vert.spv
	quadVertSPV []byte
	//go:embed shaders/quad.frag.spv
	quadFragSPV []byte
)

const spirvMagic = 0x07230203

// ErrShaderCode is returned for a shader binary that is not a whole number of
// little-endian SPIR-V words.
var ErrShaderCode = errors.New("invalid SPIR-V code")

// shaderWords converts a SPIR-V binary to the word slice vkCreateShaderModule
// expects.
func shaderWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrShaderCode, len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrShaderCode, words[0])
	}
	return words, nil
}
