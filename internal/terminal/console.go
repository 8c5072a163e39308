// Package terminal is the interactive operator console: the same form and
// actions as the web page, driven by prompts.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/service"
)

// Console runs actions for one session from the terminal.
type Console struct {
	svc     *service.Service
	session *service.Session
	driver  PromptDriver
	out     io.Writer
	logger  *logrus.Logger
	router  *Router
}

// New creates a Console and registers its commands.
func New(svc *service.Service, session *service.Session, driver PromptDriver, out io.Writer, logger *logrus.Logger) *Console {
	c := &Console{
		svc:     svc,
		session: session,
		driver:  driver,
		out:     out,
		logger:  logger,
		router:  NewRouter(logger),
	}
	c.registerCommands()
	return c
}

func (c *Console) registerCommands() {
	for _, a := range c.svc.Actions() {
		c.router.RegisterCommand(string(a), c.actionCommand(a))
	}
	c.router.RegisterCommand("set", HandlerFunc(c.set))
	c.router.RegisterCommand("edit", HandlerFunc(c.edit))
	c.router.RegisterCommand("menu", HandlerFunc(c.menu))
	c.router.RegisterCommand("show", HandlerFunc(c.show))
	c.router.RegisterCommand("help", HandlerFunc(c.help))
	quit := HandlerFunc(func(context.Context, Command) error { return ErrQuit })
	c.router.RegisterCommand("quit", quit)
	c.router.RegisterCommand("exit", quit)
}

// Run reads commands until the operator quits or interrupts.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Wishlist console. Type help to see available commands.")
	for {
		line, err := c.driver.Input(ctx, InputConfig{Message: "wishdesk>"})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		err = c.Exec(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, ErrAborted):
			fmt.Fprintln(c.out, "Cancelled.")
		case errors.Is(err, ErrUnknownCommand):
			fmt.Fprintln(c.out, "Unknown command. Type help to see available commands.")
		default:
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	return c.router.HandleLine(ctx, line)
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (c *Console) actionCommand(a service.Action) HandlerFunc {
	return func(ctx context.Context, _ Command) error {
		return c.run(ctx, a)
	}
}

func (c *Console) run(ctx context.Context, a service.Action) error {
	out := c.session.Do(ctx, c.svc, a, c.session.Form())
	fmt.Fprintln(c.out, out.Flash)
	if out.Table != nil {
		return out.Table.Text(c.out)
	}
	return nil
}

// set <field> <value...>; the value is everything after the field name and
// one space, spacing included.
func (c *Console) set(_ context.Context, cmd Command) error {
	name, value := CutWord(cmd.Rest)
	if name == "" {
		return fmt.Errorf("usage: set <field> [value]")
	}
	if !form.IsKnown(name) {
		return fmt.Errorf("unknown field %q", name)
	}
	c.session.Edit(form.State{name: value})
	return nil
}

// edit <wishlist|item> prompts for every field of the group.
func (c *Console) edit(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("usage: edit <wishlist|item>")
	}
	var names []string
	switch cmd.Args[0] {
	case "wishlist":
		names = form.WishlistFields
	case "item":
		names = form.ItemFields
	default:
		return fmt.Errorf("unknown group %q", cmd.Args[0])
	}

	current := c.session.Form()
	values := form.New()
	for _, name := range names {
		if form.BoolFields[name] {
			ok, err := c.driver.Confirm(ctx, ConfirmConfig{
				Message: form.Labels[name],
				Default: current.ReadBool(name) == form.True,
			})
			if err != nil {
				return err
			}
			values.Write(name, ok)
			continue
		}
		v, err := c.driver.Input(ctx, InputConfig{
			Message: form.Labels[name],
			Default: current.Read(name),
			Help:    name,
		})
		if err != nil {
			return err
		}
		values.Write(name, v)
	}
	c.session.Edit(values)
	return nil
}

func (c *Console) menu(ctx context.Context, _ Command) error {
	actions := c.svc.Actions()
	options := make([]string, len(actions))
	for i, a := range actions {
		options[i] = string(a)
	}
	idx, err := c.driver.Select(ctx, SelectConfig{Message: "Action", Options: options, PageSize: len(options)})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(actions) {
		return fmt.Errorf("no action selected")
	}
	return c.run(ctx, actions[idx])
}

func (c *Console) show(context.Context, Command) error {
	state := c.session.Form()
	for _, name := range form.AllFields {
		fmt.Fprintf(c.out, "%-22s %s\n", name, state.Read(name))
	}
	if t := c.session.Table(); t != nil {
		fmt.Fprintln(c.out)
		return t.Text(c.out)
	}
	return nil
}

func (c *Console) help(context.Context, Command) error {
	fmt.Fprintln(c.out, "Commands:")
	for _, name := range c.router.Commands() {
		fmt.Fprintf(c.out, "  %s\n", name)
	}
	return nil
}
