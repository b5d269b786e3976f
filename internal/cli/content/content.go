package content

import (
	"context"
	"fmt"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/models"
)

type QuoteCmd struct {
	Random bool   `short:"r" help:"Fetch a random quote instead of today's."`
	Tag    string `short:"t" help:"Fetch quotes with this tag."`
	Count  int    `short:"n" default:"5" help:"How many tagged quotes to fetch."`
}

func (c *QuoteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Tag != "" {
		quotes, err := ctx.Content.QuotesByTag(bg, c.Tag, c.Count)
		if err != nil {
			return err
		}
		if len(quotes) == 0 {
			fmt.Printf("No quotes tagged %q.\n", c.Tag)
			return nil
		}
		for _, q := range quotes {
			printQuote(q)
		}
		return nil
	}

	fetch := ctx.Content.DailyQuote
	if c.Random {
		fetch = ctx.Content.Quote
	}
	q, err := fetch(bg)
	if err != nil {
		return err
	}
	printQuote(q)
	return nil
}

func printQuote(q models.Quote) {
	fmt.Printf("%s\n  %s\n", cli.TitleStyle.Render("“"+q.Content+"”"), cli.MutedStyle.Render("- "+q.Author))
}

type FactCmd struct {
	Random bool `short:"r" help:"Fetch a random fact instead of today's."`
	Count  int  `short:"n" help:"Fetch a batch of N facts."`
}

func (c *FactCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Count > 0 {
		tips, err := ctx.Content.FactsBatch(bg, c.Count)
		if err != nil {
			return err
		}
		for _, tip := range tips {
			printFact(tip)
		}
		return nil
	}

	fetch := ctx.Content.DailyFact
	if c.Random {
		fetch = ctx.Content.Fact
	}
	tip, err := fetch(bg)
	if err != nil {
		return err
	}
	printFact(tip)
	return nil
}

func printFact(tip models.HealthTip) {
	fmt.Printf("💡 %s\n", tip.Fact)
}

type ContentCmd struct {
	Sync  ContentSyncCmd  `cmd:"" help:"Refresh the offline quote and fact caches."`
	Clear ContentClearCmd `cmd:"" help:"Drop cached and daily content."`
}

type ContentSyncCmd struct{}

func (c *ContentSyncCmd) Run(ctx *cli.Context) error {
	ctx.Content.Sync(context.Background())
	fmt.Println("Content sync finished. Anything that failed to refresh was logged.")
	return nil
}

type ContentClearCmd struct{}

func (c *ContentClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Content.ClearCache(context.Background()); err != nil {
		return err
	}
	fmt.Printf("%s Content cache cleared.\n", cli.SuccessStyle.Render("✓"))
	return nil
}
