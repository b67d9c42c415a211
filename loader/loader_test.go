package loader_test

import (
	"archive/zip"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cespare/xxhash"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/loader"
)

const printEight = `# print8.ls8
10000010 # LDI R0,8
00000000
00001000
01000111 # PRN R0
00000000
00000001 # HLT
`

// print8.7z stores printEight as print8.ls8 with the copy coder.
const printEight7z = "N3q8ryccAASYmjZKXQAAAAAAAAA4AAAAAAAAAAuhzpcjIHByaW50OC5sczgKMTAw" +
	"MDAwMTAgIyBMREkgUjAsOAowMDAwMDAwMAowMDAwMTAwMAowMTAwMDExMSAjIFBS" +
	"TiBSMAowMDAwMDAwMAowMDAwMDAwMSAjIEhMVAoBBAYAAQldAAcLAQABAQAMXQAI" +
	"CgGVIYfwAAAFAREXAHAAcgBpAG4AdAA4AC4AbABzADgAAAAAAA=="

var _ = Describe("LS8 Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ls8-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	writeFile := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("Parse", func() {
		It("should parse one byte per line", func() {
			image, err := loader.Parse(strings.NewReader("10000010\n00000000\n00101000\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(Equal([]byte{0x82, 0x00, 0x28}))
		})

		It("should skip blank and comment lines", func() {
			image, err := loader.Parse(strings.NewReader(printEight))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(Equal([]byte{0x82, 0, 8, 0x47, 0, 1}))
		})

		It("should ignore leading whitespace and trailing text", func() {
			image, err := loader.Parse(strings.NewReader("  \t101xyz\n\n   \nabc\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(Equal([]byte{5}))
		})

		It("should keep the low byte of wide values", func() {
			image, err := loader.Parse(strings.NewReader("100000001\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(Equal([]byte{1}))
		})

		It("should handle Windows line endings", func() {
			image, err := loader.Parse(strings.NewReader("00000001\r\n00000010\r\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(Equal([]byte{1, 2}))
		})

		It("should accept a full memory image", func() {
			text := strings.Repeat("1\n", emu.MemorySize)
			image, err := loader.Parse(strings.NewReader(text))
			Expect(err).NotTo(HaveOccurred())
			Expect(image).To(HaveLen(emu.MemorySize))
		})

		It("should reject images larger than memory", func() {
			text := strings.Repeat("1\n", emu.MemorySize+1)
			_, err := loader.Parse(strings.NewReader(text))
			Expect(err).To(MatchError(emu.ErrImageTooLarge))
		})
	})

	Describe("Load", func() {
		It("should load a text image with a digest", func() {
			path := writeFile("print8.ls8", printEight)

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Bytes).To(Equal([]byte{0x82, 0, 8, 0x47, 0, 1}))
			Expect(prog.Digest).To(Equal(xxhash.Sum64(prog.Bytes)))
		})

		It("should fail for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.ls8"))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
		})

		It("should load a gzip compressed image", func() {
			path := filepath.Join(tempDir, "print8.ls8.gz")
			fh, err := os.Create(path)
			Expect(err).NotTo(HaveOccurred())
			zw := gzip.NewWriter(fh)
			_, err = zw.Write([]byte(printEight))
			Expect(err).NotTo(HaveOccurred())
			Expect(zw.Close()).To(Succeed())
			Expect(fh.Close()).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Bytes).To(Equal([]byte{0x82, 0, 8, 0x47, 0, 1}))
		})

		It("should load the first file of a zip archive", func() {
			path := filepath.Join(tempDir, "print8.zip")
			fh, err := os.Create(path)
			Expect(err).NotTo(HaveOccurred())
			zw := zip.NewWriter(fh)
			w, err := zw.Create("print8.ls8")
			Expect(err).NotTo(HaveOccurred())
			_, err = w.Write([]byte(printEight))
			Expect(err).NotTo(HaveOccurred())
			Expect(zw.Close()).To(Succeed())
			Expect(fh.Close()).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Bytes).To(Equal([]byte{0x82, 0, 8, 0x47, 0, 1}))
		})

		It("should reject an empty zip archive", func() {
			path := filepath.Join(tempDir, "empty.zip")
			fh, err := os.Create(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(zip.NewWriter(fh).Close()).To(Succeed())
			Expect(fh.Close()).To(Succeed())

			_, err = loader.Load(path)
			Expect(err).To(MatchError(loader.ErrEmptyArchive))
		})

		It("should load the first file of a 7z archive", func() {
			archive, err := base64.StdEncoding.DecodeString(printEight7z)
			Expect(err).NotTo(HaveOccurred())
			path := filepath.Join(tempDir, "print8.7z")
			Expect(os.WriteFile(path, archive, 0644)).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Bytes).To(Equal([]byte{0x82, 0, 8, 0x47, 0, 1}))
			Expect(prog.Digest).To(Equal(xxhash.Sum64(prog.Bytes)))
		})

		It("should fail for a corrupt 7z archive", func() {
			path := writeFile("bad.7z", "not an archive")

			_, err := loader.Load(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Copy", func() {
		It("should place the image at address 0", func() {
			prog := &loader.Program{Bytes: []byte{1, 2, 3}}
			memory := emu.NewMemory()

			Expect(prog.Copy(memory)).To(Succeed())
			Expect(memory.Read8(0)).To(Equal(byte(1)))
			Expect(memory.Read8(2)).To(Equal(byte(3)))
		})
	})
})
