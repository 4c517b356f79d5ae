package vm

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"

	"intcode/pkg/ram"
	"intcode/pkg/source"
	"intcode/pkg/types"
)

// Image is an immutable loaded program from which any number of independent
// machines can be started.
type Image struct {
	Hash [32]byte
	ram  *ram.RAM
	size int
}

var (
	imageCache   = make(map[[32]byte]*Image)
	imageCacheMu sync.RWMutex
)

// Compile returns the image for words, reusing a cached one when the same
// program was compiled before.
func Compile(words []types.ProgramElement) *Image {
	hash := hashWords(words)

	imageCacheMu.RLock()
	cached, ok := imageCache[hash]
	imageCacheMu.RUnlock()
	if ok {
		return cached
	}

	img := &Image{
		Hash: hash,
		ram:  ram.NewRAM(words),
		size: len(words),
	}

	imageCacheMu.Lock()
	if existing, ok := imageCache[hash]; ok {
		img = existing
	} else {
		imageCache[hash] = img
	}
	imageCacheMu.Unlock()
	return img
}

// LoadImage parses and compiles the program stored at path.
func LoadImage(path string) (*Image, error) {
	words, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(words), nil
}

// NewMachine starts a fresh machine at pc 0 with empty queues.
func (img *Image) NewMachine() *Machine {
	return newMachineWithRAM(img.ram.Clone())
}

// Len returns the number of words in the program.
func (img *Image) Len() int {
	return img.size
}

// Words returns a copy of the program.
func (img *Image) Words() []types.ProgramElement {
	return img.ram.InspectRange(0, uint64(img.size))
}

func hashWords(words []types.ProgramElement) [32]byte {
	buf := make([]byte, 8*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(word))
	}
	return blake2b.Sum256(buf)
}
