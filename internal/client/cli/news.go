package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/smirnovds/townsquare/internal/model"
)

// ListNews prints the cached article list, fetching only when the cache
// is empty or older than the freshness window.
func (a *App) ListNews(ctx context.Context) error {
	return a.guarded(ctx, func(ctx context.Context) error {
		if err := a.newsCtl.Fetch(ctx, false); err != nil {
			return err
		}
		snap := a.newsCtl.Snapshot()
		if len(snap.Items) == 0 {
			fmt.Println("No news yet.")
			return nil
		}
		for _, n := range snap.Items {
			fmt.Printf("%s  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02"), n.Title)
		}
		return nil
	})
}

func (a *App) ShowNews(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Article ID", os.Stdout)
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		n, err := a.news.GetByID(ctx, id)
		if err != nil {
			return err
		}
		printNews(n)
		return nil
	})
}

// AddNews collects a new article interactively and publishes it. The
// attached image, if any, is uploaded before the article row is written.
func (a *App) AddNews(ctx context.Context) error {
	in, err := a.promptNewsInput()
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.newsCtl.Mutate(ctx, func(ctx context.Context) error {
			n, err := a.news.Create(ctx, *in)
			if err != nil {
				return err
			}
			fmt.Printf("Published %s\n", n.ID)
			return nil
		})
	})
}

func (a *App) EditNews(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Article ID", os.Stdout)
	if err != nil {
		return err
	}
	in, err := a.promptNewsInput()
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.newsCtl.Mutate(ctx, func(ctx context.Context) error {
			n, err := a.news.Update(ctx, id, *in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", n.ID)
			return nil
		})
	})
}

// DeleteNews asks for confirmation before anything leaves the client; a
// declined prompt costs no network call.
func (a *App) DeleteNews(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Article ID", os.Stdout)
	if err != nil {
		return err
	}
	ok, err := confirmAction(a.reader, fmt.Sprintf("Delete article %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.newsCtl.Mutate(ctx, func(ctx context.Context) error {
			if err := a.news.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		})
	})
}

// RefreshAll forces both collections to reload from the backend.
func (a *App) RefreshAll(ctx context.Context) error {
	return a.guarded(ctx, func(ctx context.Context) error {
		if err := a.newsCtl.Refresh(ctx); err != nil {
			return err
		}
		return a.eventsCtl.Refresh(ctx)
	})
}

func (a *App) promptNewsInput() (*model.NewsInput, error) {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return nil, err
	}
	summary, err := getSimpleText(a.reader, "Summary (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	content, err := GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return nil, err
	}
	image, err := GetImage(a.reader, os.Stdout)
	if err != nil {
		return nil, err
	}
	return &model.NewsInput{Title: title, Summary: summary, Content: content, Image: image}, nil
}

func printNews(n *model.News) {
	fmt.Printf("== %s ==\n", n.Title)
	if n.Summary != "" {
		fmt.Println(n.Summary)
	}
	fmt.Println(n.Content)
	if n.ImageURL != "" {
		fmt.Printf("Image: %s\n", n.ImageURL)
	}
	fmt.Printf("Published %s, last updated %s\n",
		n.CreatedAt.Format("2006-01-02 15:04"), n.UpdatedAt.Format("2006-01-02 15:04"))
}
