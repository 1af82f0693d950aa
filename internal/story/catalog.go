package story

import (
	"errors"
	"fmt"
	"sort"
)

var (
	errEmptyCatalog      = errors.New("story: catalog requires at least one chapter")
	errMissingStart      = errors.New("story: starting chapter missing from catalog")
	errDuplicateChapter  = errors.New("story: duplicate chapter id")
	errDanglingReference = errors.New("story: choice references unknown chapter")
)

// Catalog is the immutable chapter store. Content is fixed at construction
// and read-only at runtime.
type Catalog struct {
	byID    map[string]Chapter
	ordered []Chapter
	startID string
}

// NewCatalog validates the chapter graph and returns a Catalog. Every choice
// target must resolve to a chapter in the set or be empty (story end).
func NewCatalog(chapters []Chapter, startID string) (*Catalog, error) {
	if len(chapters) == 0 {
		return nil, errEmptyCatalog
	}

	byID := make(map[string]Chapter, len(chapters))
	for _, chapter := range chapters {
		if _, exists := byID[chapter.ID]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateChapter, chapter.ID)
		}
		byID[chapter.ID] = chapter
	}

	if _, exists := byID[startID]; !exists {
		return nil, fmt.Errorf("%w: %s", errMissingStart, startID)
	}

	for _, chapter := range chapters {
		for index, choice := range chapter.Choices {
			if choice.Next == "" {
				continue
			}
			if _, exists := byID[choice.Next]; !exists {
				return nil, fmt.Errorf("%w: %s choice %d -> %s", errDanglingReference, chapter.ID, index, choice.Next)
			}
		}
	}

	ordered := make([]Chapter, len(chapters))
	copy(ordered, chapters)
	sort.SliceStable(ordered, func(left, right int) bool {
		if ordered[left].Number != ordered[right].Number {
			return ordered[left].Number < ordered[right].Number
		}
		return ordered[left].ID < ordered[right].ID
	})

	return &Catalog{byID: byID, ordered: ordered, startID: startID}, nil
}

// Chapter returns the chapter for the given id.
func (c *Catalog) Chapter(id string) (Chapter, error) {
	chapter, exists := c.byID[id]
	if !exists {
		return Chapter{}, fmt.Errorf("%w: %s", ErrUnknownChapter, id)
	}
	return chapter, nil
}

// Chapters returns all chapters ordered by chapter number.
func (c *Catalog) Chapters() []Chapter {
	chapters := make([]Chapter, len(c.ordered))
	copy(chapters, c.ordered)
	return chapters
}

// StartID returns the chapter new progress records begin at.
func (c *Catalog) StartID() string {
	return c.startID
}
