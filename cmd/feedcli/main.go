package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/d60-Lab/feedmock/config"
	"github.com/d60-Lab/feedmock/internal/app"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/seed"
	"github.com/d60-Lab/feedmock/internal/view"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

// feedcli renders the current user's feed, toggles a like on the first item
// and posts the command-line arguments as a comment, then renders again.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Feed.Seed = true
	if err := logger.Init("warn", "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}
	defer a.Close(ctx)

	feed := make(chan *model.ResolvedFeed, 1)
	if err := a.Async.GetFeedData(ctx, seed.CurrentUserID, func(f *model.ResolvedFeed) { feed <- f }); err != nil {
		logger.Fatal("get feed", zap.Error(err))
	}
	f := <-feed

	header := color.New(color.Bold, color.Underline)
	header.Printf("Feed %s (%d items)\n", f.ID, len(f.Contents))
	views := make([]*view.FeedItemView, 0, len(f.Contents))
	for _, item := range f.Contents {
		v := view.New(item, seed.CurrentUserID, a.Async)
		views = append(views, v)
		render(v)
	}
	if len(views) == 0 {
		return
	}

	v := views[0]
	header.Println("Toggling like on the first item")
	if err := v.ToggleLike(ctx); err != nil {
		logger.Fatal("toggle like", zap.Error(err))
	}
	v.Apply(<-v.Updates())
	render(v)

	text := strings.Join(os.Args[1:], " ")
	if text == "" {
		text = "Posted from feedcli"
	}
	header.Println("Posting a comment")
	if err := v.PostComment(ctx, text); err != nil {
		logger.Fatal("post comment", zap.Error(err))
	}
	v.Apply(<-v.Updates())
	render(v)
}

func render(v *view.FeedItemView) {
	if err := v.Render(os.Stdout); err != nil {
		color.Red("cannot render item %s: %v", v.State().ID, err)
	}
	fmt.Println(strings.Repeat("-", 40))
}
