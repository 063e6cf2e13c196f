package parser

import (
	"bufio"
	"io"
	"sync"
)

const (
	scannerBufferSize    = 64 * 1024       // 64KB per scanner
	maxScannerBufferSize = 4 * 1024 * 1024 // longest accepted line
)

// scannerPool holds scanner buffers so that loading several glyph sets in
// a row does not allocate a fresh 64KB buffer each time.
var scannerPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, scannerBufferSize)
		return &buf
	},
}

func acquireScannerBuffer() []byte {
	bufPtr, ok := scannerPool.Get().(*[]byte)
	if !ok {
		return make([]byte, 0, scannerBufferSize)
	}
	return (*bufPtr)[:0]
}

// releaseScannerBuffer returns buf to the pool unless it is too small to
// be useful or has grown past the maximum.
func releaseScannerBuffer(buf []byte) {
	if buf == nil || cap(buf) < scannerBufferSize/2 || cap(buf) > maxScannerBufferSize {
		return
	}
	buf = buf[:0]
	scannerPool.Put(&buf)
}

// createPooledScanner creates a scanner with a pooled buffer. The caller
// releases the returned buffer when done with the scanner.
func createPooledScanner(r io.Reader) (*bufio.Scanner, []byte) {
	scanner := bufio.NewScanner(r)
	buf := acquireScannerBuffer()
	scanner.Buffer(buf, maxScannerBufferSize)
	return scanner, buf
}
