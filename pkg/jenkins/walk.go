package jenkins

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	walkConcurrency = 10
	walkTree        = "_class,name,url,color,jobs[_class,name,url,color]"
)

type folderListing struct {
	JobSummary
	Jobs []JobSummary `json:"jobs"`
}

// IsFolder reports whether the item contains further jobs, like folders,
// organization folders and multibranch projects.
func (s JobSummary) IsFolder() bool {
	return strings.Contains(s.Class, "Folder") || strings.Contains(s.Class, "MultiBranchProject")
}

// Walk descends into the given folders and returns every job below them,
// named by its full path and sorted by name. Without folders the root
// listing is walked.
func (c *JobClient) Walk(ctx context.Context, folders ...string) ([]JobSummary, error) {
	var (
		level  []JobSummary
		result []JobSummary
	)

	if len(folders) == 0 {
		root, err := c.client.Root(ctx)

		if err != nil {
			return nil, err
		}

		level = append(level, root.Jobs...)
	} else {
		listings, err := c.listings(ctx, folders)

		if err != nil {
			return nil, err
		}

		for i, listing := range listings {
			if !listing.IsFolder() {
				listing.Name = folders[i]
				result = append(result, listing.JobSummary)
				continue
			}

			for _, child := range listing.Jobs {
				child.Name = folders[i] + "/" + child.Name
				level = append(level, child)
			}
		}
	}

	for len(level) > 0 {
		pending := make([]string, 0)

		for _, item := range level {
			if item.IsFolder() {
				pending = append(pending, item.Name)
				continue
			}

			result = append(result, item)
		}

		listings, err := c.listings(ctx, pending)

		if err != nil {
			return nil, err
		}

		level = level[:0]

		for i, listing := range listings {
			for _, child := range listing.Jobs {
				child.Name = pending[i] + "/" + child.Name
				level = append(level, child)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (c *JobClient) listings(ctx context.Context, names []string) ([]folderListing, error) {
	result := make([]folderListing, len(names))

	if len(names) == 0 {
		return result, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(walkConcurrency)

	for i, name := range names {
		g.Go(func() error {
			listing := folderListing{}
			path := fmt.Sprintf("%s/api/json?tree=%s", JobPath(name), walkTree)

			if err := c.client.getJSON(ctx, path, &listing); err != nil {
				return fmt.Errorf("failed to list folder %s: %w", name, err)
			}

			result[i] = listing

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
