package xlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/safeopen"

	"github.com/benz9527/xrbtree/lib/infra"
)

var _ io.WriteCloser = (*singleLog)(nil)

// singleLog is not thread-safe, the file core locks it.
// The file is opened lazily on the first write.
type singleLog struct {
	filePath    string
	filename    string
	wroteSize   uint64
	mkdirOnce   sync.Once
	currentFile *os.File
}

func (log *singleLog) Write(p []byte) (n int, err error) {
	if log.currentFile == nil {
		if err = log.openOrCreate(); err != nil {
			return 0, err
		}
	}
	n, err = log.currentFile.Write(p)
	log.wroteSize += uint64(n)
	return
}

func (log *singleLog) Sync() error {
	if log.currentFile == nil {
		return nil
	}
	return infra.WrapErrorStack(log.currentFile.Sync())
}

func (log *singleLog) Close() error {
	if log.currentFile == nil {
		return nil
	}
	if err := log.currentFile.Close(); err != nil {
		return infra.WrapErrorStack(err)
	}
	log.currentFile = nil
	return nil
}

func (log *singleLog) openOrCreate() error {
	if err := log.mkdir(); err != nil {
		return err
	}

	pathToLog := filepath.Join(log.filePath, log.filename)
	info, err := os.Stat(pathToLog)
	if err == nil && info.IsDir() {
		return infra.NewErrorStack("log file <" + pathToLog + "> is a dir")
	} else if err != nil && !os.IsNotExist(err) {
		return infra.WrapErrorStack(err)
	}

	f, err := safeopen.OpenFileBeneath(log.filePath, log.filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "unable to open log file: "+pathToLog)
	}
	log.currentFile = f
	if info != nil {
		log.wroteSize = uint64(info.Size())
	}
	return nil
}

func (log *singleLog) mkdir() error {
	var err error
	log.mkdirOnce.Do(func() {
		if log.filePath == "" {
			log.filePath = os.TempDir()
		}
		if log.filePath == os.TempDir() {
			return
		}
		err = os.MkdirAll(log.filePath, 0o755)
	})
	return infra.WrapErrorStack(err)
}
