package editor

import (
	"encoding/json"
	"fmt"
	"os"

	"wilderness-editor/internal/wild"
)

// WorldFile is the JSON structure of a saved .wild world file.
type WorldFile struct {
	Version   int              `json:"version"`
	Regions   []*wild.Region   `json:"regions"`
	Paths     []*wild.Path     `json:"paths"`
	Landmarks []*wild.Landmark `json:"landmarks,omitempty"`
}

const worldFileVersion = 1

// LoadWorld reads a world file and replaces the current content.
func (s *State) LoadWorld(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var wf WorldFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("parse world file %s: %w", path, err)
	}

	s.mu.Lock()
	s.worldPath = path
	s.mu.Unlock()

	s.ReplaceWorld(wf.Regions, wf.Paths, wf.Landmarks)
	return nil
}

// SaveWorld writes the current content to a world file and clears the
// modified flag.
func (s *State) SaveWorld(path string) error {
	s.mu.RLock()
	wf := WorldFile{
		Version:   worldFileVersion,
		Regions:   s.regionsLocked(),
		Paths:     s.pathsLocked(),
		Landmarks: s.landmarksLocked(),
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.worldPath = path
	s.modified = false
	s.mu.Unlock()

	s.Emit(EventWorldSaved, path)
	return nil
}
