package usecase

import (
	"context"
	"errors"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// ErrRootNotFound is returned when no archive root folder exists in the
// bookmark tree. The core never creates the root itself, only sub-folders.
var ErrRootNotFound = errors.New("archive root folder not found in bookmark tree")

// DefaultRootTitles are the accepted case variants of the canonical root
// folder name. Host locales title the folder inconsistently; this is a fixed
// lookup table, not a fuzzy match.
var DefaultRootTitles = []string{"Other Bookmarks", "Other bookmarks"}

// LocateArchiveRootUseCase finds the canonical parent folder for archives.
type LocateArchiveRootUseCase struct {
	bookmarks port.BookmarkDirectory
	titles    []string
}

// NewLocateArchiveRootUseCase creates the locator. An empty titles slice
// falls back to DefaultRootTitles.
func NewLocateArchiveRootUseCase(bookmarks port.BookmarkDirectory, titles []string) *LocateArchiveRootUseCase {
	if len(titles) == 0 {
		titles = DefaultRootTitles
	}
	return &LocateArchiveRootUseCase{bookmarks: bookmarks, titles: titles}
}

// Execute performs a depth-first search of the bookmark tree for the root
// folder. The lookup is repeated per call and never cached: the host may
// have moved or renamed the structure between calls.
func (uc *LocateArchiveRootUseCase) Execute(ctx context.Context) (*entity.BookmarkNode, error) {
	log := logging.FromContext(ctx)

	tree, err := uc.bookmarks.Tree(ctx)
	if err != nil {
		return nil, err
	}

	if root := uc.find(tree); root != nil {
		log.Debug().Str("root_id", string(root.ID)).Str("title", root.Title).Msg("archive root located")
		return root, nil
	}

	return nil, ErrRootNotFound
}

func (uc *LocateArchiveRootUseCase) find(nodes []*entity.BookmarkNode) *entity.BookmarkNode {
	for _, node := range nodes {
		if node.IsFolder() && uc.matches(node.Title) {
			return node
		}
		if found := uc.find(node.Children); found != nil {
			return found
		}
	}
	return nil
}

func (uc *LocateArchiveRootUseCase) matches(title string) bool {
	for _, t := range uc.titles {
		if title == t {
			return true
		}
	}
	return false
}
