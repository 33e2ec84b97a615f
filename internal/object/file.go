package object

import "github.com/emberlang/ember/internal/types"

// FType is the dispatch table a File carries: the actual I/O behaviour
// (stdio wrapper, string-buffer file, pipe file, ...) is supplied by an
// external file-type adapter (out of core scope per spec.md §1); the
// core only needs the shape of the table to route File operations.
type FType struct {
	Name     string
	Getch    func(fd any) (byte, bool)
	Ungetch  func(fd any, c byte)
	Read     func(fd any, buf []byte) (int, error)
	Write    func(fd any, buf []byte) (int, error)
	Flush    func(fd any) error
	Close    func(fd any) error
	Seek     func(fd any, off int64, whence int) (int64, error)
	Eof      func(fd any) bool
	Fileno   func(fd any) int
	SetVBuf  func(fd any, mode int, size int)
}

// File pairs a foreign handle with its FType. Files are never
// serializable (spec.md §3.3), so this type deliberately does not
// implement types.Saveable.
type File struct {
	Base
	Fd    any
	FTy   *FType
}

func NewFile(fd any, fty *FType) *File {
	f := &File{Fd: fd, FTy: fty}
	f.Tcode = TcodeFile
	return f
}

type fileType struct{}

func (fileType) Name() string                { return "file" }
func (fileType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 32 }

func (fileType) Free(o types.Object) {
	f := o.(*File)
	if f.FTy != nil && f.FTy.Close != nil {
		_ = f.FTy.Close(f.Fd)
	}
}

func (fileType) Hash(o types.Object) uint64 {
	// identity hash: files are never atoms, so pointer identity is fine.
	return uint64(uintptr(o.(*File).Hdr().Tcode)) ^ 0x46494c45
}

func (fileType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}

func (fileType) Copy(o types.Object) types.Object { return o.(*File) } // files are not value types
