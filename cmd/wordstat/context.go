package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bastiangx/wordstat/internal/cli"
	"github.com/bastiangx/wordstat/internal/logger"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag  *string
	debugFlag   *bool
	noColorFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	bookLog  *log.Logger
	shelfLog *log.Logger
}

func newCommandContext(configFlag *string, debugFlag, noColorFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		debugFlag:   debugFlag,
		noColorFlag: noColorFlag,
	}
}

// setupLogging sets the global level before any component logger is built.
func (c *commandContext) setupLogging() {
	if *c.debugFlag {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		c.bookLog = logger.NewWithConfig("book", log.DebugLevel, true, true, log.TextFormatter)
	} else {
		log.SetLevel(log.WarnLevel)
		c.bookLog = logger.New("book")
	}
	c.shelfLog = logger.New("shelf")
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		cfg, used, err := config.LoadConfigWithPriority(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(used))
		c.config = cfg
		c.configPath = used
	})
	return c.config, c.configErr
}

func (c *commandContext) renderer(out io.Writer) *cli.Renderer {
	return cli.NewRenderer(out, c.config.Display, *c.noColorFlag)
}

// loadShelf validates every path, builds the collection and reads the books
// concurrently. Any invalid path aborts before something is loaded.
func (c *commandContext) loadShelf(ctx context.Context, paths []string) (*bookshelf.Collection, error) {
	for _, path := range paths {
		if err := frequency.CheckSource(path, c.config.Books.Extensions); err != nil {
			return nil, fmt.Errorf("only book paths are accepted as arguments: %w", err)
		}
	}

	shelf := bookshelf.New(bookshelf.WithLogger(c.shelfLog))
	for _, path := range paths {
		shelf.Add(frequency.NewIndex(path, frequency.WithLogger(c.bookLog)))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := shelf.Preload(ctx, c.config.Books.PreloadWorkers); err != nil {
		return nil, err
	}
	return shelf, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
