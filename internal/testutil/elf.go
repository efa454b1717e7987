// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"strings"
	"testing"
)

// ELFSpec describes a synthetic ELF64 object.
type ELFSpec struct {
	Machine elf.Machine
	// Dynstr is the raw content of the .dynstr section, NUL separators included.
	Dynstr string
	// Dynamic adds a .dynamic section holding a single DT_NULL entry.
	Dynamic bool
	// DynstrName renames the string table section; empty means ".dynstr".
	DynstrName string
}

// ELF64 assembles a little-endian ELF64 shared object with a null section,
// .dynstr, an optional .dynamic section, and .shstrtab. It has no program
// headers and no code; it only needs to satisfy debug/elf.
func ELF64(t testing.TB, spec ELFSpec) []byte {
	t.Helper()

	const (
		ehsize    = 64
		shentsize = 64
	)

	dynstrName := spec.DynstrName
	if dynstrName == "" {
		dynstrName = ".dynstr"
	}
	shstrtab := "\x00" + dynstrName + "\x00.dynamic\x00.shstrtab\x00"
	nameOf := func(s string) uint32 { return uint32(strings.Index(shstrtab, s+"\x00")) }
	dynamicData := make([]byte, 16)

	var body bytes.Buffer
	dynstrOff := uint64(ehsize)
	body.WriteString(spec.Dynstr)
	dynamicOff := dynstrOff + uint64(body.Len())
	if spec.Dynamic {
		body.Write(dynamicData)
	}
	shstrOff := dynstrOff + uint64(body.Len())
	body.WriteString(shstrtab)
	shoff := dynstrOff + uint64(body.Len())

	sections := []elf.Section64{
		{},
		{
			Name: nameOf(dynstrName), Type: uint32(elf.SHT_STRTAB), Flags: uint64(elf.SHF_ALLOC),
			Off: dynstrOff, Size: uint64(len(spec.Dynstr)), Addralign: 1,
		},
	}
	if spec.Dynamic {
		sections = append(sections, elf.Section64{
			Name: nameOf(".dynamic"), Type: uint32(elf.SHT_DYNAMIC), Flags: uint64(elf.SHF_ALLOC | elf.SHF_WRITE),
			Off: dynamicOff, Size: uint64(len(dynamicData)), Link: 1, Addralign: 8, Entsize: 16,
		})
	}
	sections = append(sections, elf.Section64{
		Name: nameOf(".shstrtab"), Type: uint32(elf.SHT_STRTAB),
		Off: shstrOff, Size: uint64(len(shstrtab)), Addralign: 1,
	})

	header := elf.Header64{
		Type:      uint16(elf.ET_DYN),
		Machine:   uint16(spec.Machine),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    ehsize,
		Shentsize: shentsize,
		Shnum:     uint16(len(sections)),
		Shstrndx:  uint16(len(sections) - 1),
	}
	copy(header.Ident[:], elf.ELFMAG)
	header.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	header.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	header.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		t.Fatalf("failed to encode ELF header: %v", err)
	}
	out.Write(body.Bytes())
	for _, s := range sections {
		if err := binary.Write(&out, binary.LittleEndian, s); err != nil {
			t.Fatalf("failed to encode section header: %v", err)
		}
	}
	return out.Bytes()
}
