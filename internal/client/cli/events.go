package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/smirnovds/townsquare/internal/model"
)

// ListEvents prints upcoming events, soonest first.
func (a *App) ListEvents(ctx context.Context) error {
	return a.guarded(ctx, func(ctx context.Context) error {
		if err := a.eventsCtl.Fetch(ctx, false); err != nil {
			return err
		}
		snap := a.eventsCtl.Snapshot()
		if len(snap.Items) == 0 {
			fmt.Println("No upcoming events.")
			return nil
		}
		for _, e := range snap.Items {
			fmt.Printf("%s  %s %s  %s\n", e.ID, e.EventDate.Format("2006-01-02"), e.EventTime, e.Title)
		}
		return nil
	})
}

func (a *App) ShowEvent(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Event ID", os.Stdout)
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		e, err := a.events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		printEvent(e)
		return nil
	})
}

// AddEvent collects a new event interactively. Date validation happens
// before anything touches the network, so a past date costs no upload.
func (a *App) AddEvent(ctx context.Context) error {
	in, err := a.promptEventInput()
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.eventsCtl.Mutate(ctx, func(ctx context.Context) error {
			e, err := a.events.Create(ctx, *in)
			if err != nil {
				return err
			}
			fmt.Printf("Scheduled %s\n", e.ID)
			return nil
		})
	})
}

func (a *App) EditEvent(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Event ID", os.Stdout)
	if err != nil {
		return err
	}
	in, err := a.promptEventInput()
	if err != nil {
		return err
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.eventsCtl.Mutate(ctx, func(ctx context.Context) error {
			e, err := a.events.Update(ctx, id, *in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", e.ID)
			return nil
		})
	})
}

func (a *App) DeleteEvent(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Event ID", os.Stdout)
	if err != nil {
		return err
	}
	ok, err := confirmAction(a.reader, fmt.Sprintf("Delete event %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	return a.guarded(ctx, func(ctx context.Context) error {
		return a.eventsCtl.Mutate(ctx, func(ctx context.Context) error {
			if err := a.events.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		})
	})
}

func (a *App) promptEventInput() (*model.EventInput, error) {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return nil, err
	}
	description, err := GetMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		return nil, err
	}
	date, err := GetDate(a.reader, "Event date", os.Stdout)
	if err != nil {
		return nil, err
	}
	timeLabel, err := getSimpleText(a.reader, "Time (e.g. 18:30 or 'all day')", os.Stdout)
	if err != nil {
		return nil, err
	}
	location, err := getSimpleText(a.reader, "Location", os.Stdout)
	if err != nil {
		return nil, err
	}
	image, err := GetImage(a.reader, os.Stdout)
	if err != nil {
		return nil, err
	}
	return &model.EventInput{
		Title:       title,
		Description: description,
		EventDate:   date,
		EventTime:   timeLabel,
		Location:    location,
		Image:       image,
	}, nil
}

func printEvent(e *model.Event) {
	fmt.Printf("== %s ==\n", e.Title)
	fmt.Printf("%s %s @ %s\n", e.EventDate.Format("2006-01-02"), e.EventTime, e.Location)
	fmt.Println(e.Description)
	if e.ImageURL != "" {
		fmt.Printf("Image: %s\n", e.ImageURL)
	}
}
