package authorize

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagConfig string
	flagState  string
	flagOpen   bool
	flagCode   string

	// openURL opens the authorization page. Tests replace it.
	openURL func(string) error
}

func (c *Command) Synopsis() string {
	return "Run the hosted OAuth flow"
}

func (c *Command) Help() string {
	return `Usage: nylas authorize [options]

  Prints the hosted authentication URL for the configured application, or
  opens it with -open. Once the user is redirected back, pass the code with
  -code to exchange it for an access token.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("authorize", flag.ContinueOnError))
	f.StringVar(&c.flagConfig, "config", "", "Path to an HCL config file with an oauth block.")
	f.StringVar(&c.flagState, "state", "", "Opaque state returned with the redirect.")
	f.BoolVar(&c.flagOpen, "open", false, "Open the URL in a browser.")
	f.StringVar(&c.flagCode, "code", "", "Authorization code to exchange for an access token.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	oauthCfg, err := cfg.OAuthConfig()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if c.flagCode != "" {
		token, err := oauthCfg.Exchange(context.Background(), c.flagCode)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error exchanging code: %v", err))
			return 1
		}
		c.UI.Output(token.AccessToken)
		return 0
	}

	opts := []oauth2.AuthCodeOption{}
	if hint := cfg.OAuth.LoginHint; hint != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", hint))
	}
	url := oauthCfg.AuthCodeURL(c.flagState, opts...)

	if c.flagOpen {
		open := c.openURL
		if open == nil {
			open = browser.OpenURL
		}
		if err := open(url); err != nil {
			c.UI.Warn(fmt.Sprintf("could not open a browser: %v", err))
		}
	}
	c.UI.Output(url)
	return 0
}
