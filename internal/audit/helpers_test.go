package audit_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/temirov/flashaudit/internal/completion"
	"github.com/temirov/flashaudit/internal/dataset"
)

var testFlashcardColumns = []string{"kanjiID", "kanji", "onyomiReadingOne", "onyomiReadingTwo", "onyomiReadingThree"}

type stubLoader struct {
	dataset   *dataset.Dataset
	loadError error
	paths     []string
}

func (loader *stubLoader) Load(path string) (*dataset.Dataset, error) {
	loader.paths = append(loader.paths, path)
	if loader.loadError != nil {
		return nil, loader.loadError
	}
	return loader.dataset, nil
}

type recordingClient struct {
	prompts  []string
	failures map[int]error
}

func (client *recordingClient) Complete(executionContext context.Context, prompt string) completion.Result {
	callIndex := len(client.prompts)
	client.prompts = append(client.prompts, prompt)
	if failure, found := client.failures[callIndex]; found {
		return completion.Failed(failure)
	}
	identifier := strings.SplitN(prompt, "|", 2)[0]
	return completion.Succeeded("critique for " + identifier)
}

type recordingThrottle struct {
	pauses     int
	pauseError error
}

func (throttle *recordingThrottle) Pause(context.Context) error {
	throttle.pauses++
	return throttle.pauseError
}

type memoryFileSystem struct {
	files      map[string][]byte
	writeError error
	writes     int
}

func newMemoryFileSystem() *memoryFileSystem {
	return &memoryFileSystem{files: map[string][]byte{}}
}

func (fileSystem *memoryFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	fileSystem.writes++
	if fileSystem.writeError != nil {
		return fileSystem.writeError
	}
	fileSystem.files[path] = append([]byte{}, data...)
	return nil
}

func newThreeRowDataset() *dataset.Dataset {
	return dataset.NewDataset("cards.csv", testFlashcardColumns, [][]string{
		{"1", "一", "", "", ""},
		{"2", "二", "ニ", "", ""},
		{"3", "三", "", "", "サン"},
	})
}

var errConnectionRefused = errors.New("dial tcp 127.0.0.1:443: connect: connection refused")
