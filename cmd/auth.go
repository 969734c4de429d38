package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vgx/internal/server"
	"github.com/desertthunder/vgx/internal/shared"
	"github.com/urfave/cli/v3"
)

// authTimeout bounds how long the login command waits for the browser callback.
const authTimeout = 2 * time.Minute

// AuthLogin performs the OAuth2 authentication flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for tokens which are persisted to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	if configPath := cmd.String("config"); configPath != "" {
		r.configPath = configPath
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	handler := server.NewCallbackHandler(r.auth.OAuthConfig(), state)
	callbackAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := server.NewCallbackServer(callbackAddr, handler)

	r.logger.Infof("starting OAuth callback server at %v", callbackAddr)
	srv.Start()

	authURL := r.auth.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", authTimeout)

	result, err := srv.Wait(ctx, authTimeout)
	if err != nil {
		return err
	}

	r.auth.UseToken(ctx, result.Token)

	if err := r.saveTokens(result.Token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	}
	r.writePlain("You can now use: vgx bridge run\n")

	return nil
}

// AuthStatus reports the current authentication state from the stored tokens.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	spotify := r.config.Credentials.Spotify

	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		r.writePlain("✗ Spotify credentials not configured\n")
		r.writePlain("Set client_id and client_secret in config.toml, then run 'vgx auth login'\n")
		return nil
	}

	r.writePlain("✓ Spotify credentials configured\n")

	token := spotify.Token()
	if token == nil {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run 'vgx auth login' to authorize\n")
		return nil
	}

	if !token.Expiry.IsZero() && token.Expiry.Before(time.Now()) {
		r.writePlain("Authentication: ⚠ Token expired at %s\n", token.Expiry.Format(time.RFC3339))
		if token.RefreshToken != "" {
			r.writePlain("A refresh token is available; requests will renew it automatically\n")
		} else {
			r.writePlain("Run 'vgx auth login' to reauthorize\n")
		}
		return nil
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	if !token.Expiry.IsZero() {
		r.writePlain("Token expires: %s\n", token.Expiry.Format(time.RFC3339))
	}
	return nil
}
