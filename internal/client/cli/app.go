// Package cli implements the interactive command-line client for the trove
// server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/mpetrovs/trove/internal/client/config"
)

type App struct {
	config *config.Config
	api    *APIClient
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    NewAPIClient(c.ServerEndpointAddr),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.api.isLoggedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "logged in"
	}
	return "logged out"
}

func (a *App) Register(ctx context.Context) error {
	firstName, err := GetSimpleText(a.reader, "-Enter first name")
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "-Enter last name")
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "-Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, firstName, lastName, email, password); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Registered. You can now log in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

func (a *App) Get(ctx context.Context) error {
	text, err := a.api.TroveGet(ctx)
	if err != nil {
		fmt.Println("Could not fetch trove:", err)
		return err
	}

	fmt.Println(text)
	return nil
}

func (a *App) Put(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "-Enter trove text, finish with an empty line")
	if err != nil {
		return err
	}

	if err := a.api.TroveSave(ctx, text); err != nil {
		fmt.Println("Could not save trove:", err)
		return err
	}

	fmt.Println("Saved.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Revoke(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}

	fmt.Println("Token revoked.")
	return nil
}
