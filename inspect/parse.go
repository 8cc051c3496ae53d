package inspect

import (
	"errors"
	"fmt"
	"io"
)

// WebAssembly binary magic number and supported version.
const (
	magic   uint32 = 0x6D736100 // "\0asm" little-endian
	version uint32 = 0x01
)

// Section IDs for the module sections the parser walks. Non-custom
// sections must appear in increasing canonical order.
const (
	sectionCustom    byte = 0
	sectionType      byte = 1
	sectionImport    byte = 2
	sectionFunction  byte = 3
	sectionTable     byte = 4
	sectionMemory    byte = 5
	sectionGlobal    byte = 6
	sectionExport    byte = 7
	sectionStart     byte = 8
	sectionElement   byte = 9
	sectionCode      byte = 10
	sectionData      byte = 11
	sectionDataCount byte = 12
	sectionTag       byte = 13
)

// Parsing errors returned by Parse.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ExportKind identifies what an export refers to.
type ExportKind byte

const (
	ExportFunc   ExportKind = 0
	ExportTable  ExportKind = 1
	ExportMemory ExportKind = 2
	ExportGlobal ExportKind = 3
	ExportTag    ExportKind = 4
)

func (k ExportKind) String() string {
	switch k {
	case ExportFunc:
		return "func"
	case ExportTable:
		return "table"
	case ExportMemory:
		return "memory"
	case ExportGlobal:
		return "global"
	case ExportTag:
		return "tag"
	default:
		return fmt.Sprintf("kind(0x%02x)", byte(k))
	}
}

// Export is one entry of the module's export section.
type Export struct {
	Name string
	Kind ExportKind
}

// Module is the parsed summary of a wasm binary: everything the bundler
// needs to describe and compare artifacts, nothing it does not.
type Module struct {
	Version        uint32
	Exports        []Export
	CustomSections []string
	Size           int
}

// Parse reads the module header and walks the sections, decoding the
// export section and custom section names. Section payloads the bundler
// does not interpret are length-skipped, not decoded.
func Parse(data []byte) (*Module, error) {
	r := newReader(data)

	got, err := r.readU32LE()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if got != magic {
		return nil, ErrInvalidMagic
	}

	ver, err := r.readU32LE()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if ver != version {
		return nil, ErrInvalidVersion
	}

	m := &Module{Version: ver, Size: len(data)}

	// Track ordering using canonical order, not raw section IDs: the
	// DataCount and Tag sections sit out of numeric sequence.
	var lastOrder int

	for {
		sectionID, err := r.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("section header: %w", err)
		}

		if sectionID != sectionCustom {
			order, ok := sectionOrder(sectionID)
			if !ok {
				return nil, fmt.Errorf("unknown section ID: 0x%02x", sectionID)
			}
			if order <= lastOrder {
				return nil, fmt.Errorf("section %d appears out of order", sectionID)
			}
			lastOrder = order
		}

		size, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("section size: %w", err)
		}
		payload, err := r.readBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("section data: %w", err)
		}

		sr := newReader(payload)
		switch sectionID {
		case sectionCustom:
			name, err := sr.readName()
			if err != nil {
				return nil, fmt.Errorf("custom section: %w", err)
			}
			m.CustomSections = append(m.CustomSections, name)
		case sectionExport:
			if err := parseExports(sr, m); err != nil {
				return nil, fmt.Errorf("export section: %w", err)
			}
		}
	}

	return m, nil
}

func parseExports(r *reader, m *Module) error {
	count, err := r.readU32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.readName()
		if err != nil {
			return err
		}
		kind, err := r.readByte()
		if err != nil {
			return err
		}
		if kind > byte(ExportTag) {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		if _, err := r.readU32(); err != nil { // index, unused here
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: ExportKind(kind)})
	}
	return nil
}

// sectionOrder maps a section ID to its canonical position in the binary.
func sectionOrder(id byte) (int, bool) {
	order := map[byte]int{
		sectionType:      1,
		sectionImport:    2,
		sectionFunction:  3,
		sectionTable:     4,
		sectionMemory:    5,
		sectionTag:       6,
		sectionGlobal:    7,
		sectionExport:    8,
		sectionStart:     9,
		sectionElement:   10,
		sectionDataCount: 11,
		sectionCode:      12,
		sectionData:      13,
	}
	o, ok := order[id]
	return o, ok
}

// ExportedFuncs returns the names of function exports in module order.
func (m *Module) ExportedFuncs() []string {
	var names []string
	for _, e := range m.Exports {
		if e.Kind == ExportFunc {
			names = append(names, e.Name)
		}
	}
	return names
}
