package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vmorozov/customer-hub/internal/client/api"
	"github.com/vmorozov/customer-hub/internal/client/search"
	"github.com/vmorozov/customer-hub/internal/client/session"
	"github.com/vmorozov/customer-hub/internal/client/storage"
)

func main() {
	_ = godotenv.Load()

	serverURL := os.Getenv("CUSTOMER_HUB_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	storePath := os.Getenv("CUSTOMER_HUB_DB")
	if storePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot resolve home directory: %v\n", err)
			os.Exit(1)
		}
		storePath = filepath.Join(home, ".customer-hub.db")
	}

	store, err := storage.NewSQLiteStore(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.NewClient(serverURL)
	sess := session.NewManager(client, store, printTransition)

	ctx := context.Background()
	if err := waitForServer(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "unable to reach the server at %s: %s\n", serverURL, api.Message(err))
		os.Exit(1)
	}

	if err := sess.Bootstrap(ctx); err != nil && !api.IsUnauthenticated(err) {
		fmt.Printf("session restore failed: %s\n", api.Message(err))
	}

	controller := search.NewController(
		func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
			return client.ListCustomers(ctx, api.ListParams{Page: page, Search: query})
		},
		printPage,
		func(err error) {
			if sess.HandleAPIError(err) {
				return
			}
			fmt.Printf("list failed: %s\n", api.Message(err))
		},
		search.DefaultDebounce,
	)
	defer controller.Close()

	repl(ctx, client, sess, controller)
}

const (
	healthAttempts = 3
	healthDelay    = time.Second
)

// waitForServer probes the liveness endpoint before the session is
// restored, retrying briefly so a server still starting up is not
// mistaken for a dead one.
func waitForServer(ctx context.Context, client *api.Client) error {
	var err error
	for attempt := 1; attempt <= healthAttempts; attempt++ {
		if err = client.Health(ctx); err == nil {
			return nil
		}
		if !api.IsNetwork(err) || attempt == healthAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(healthDelay):
		}
	}
	return err
}

func repl(ctx context.Context, client *api.Client, sess *session.Manager, controller *search.Controller) {
	fmt.Println("customer-hub client. Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		command, rest := splitCommand(scanner.Text())
		switch command {
		case "":
			continue
		case "help":
			printHelp()
		case "quit", "exit":
			return
		case "register":
			email, password, ok := splitPair(rest)
			if !ok {
				fmt.Println("usage: register <email> <password>")
				continue
			}
			reportAuth(sess.Register(ctx, email, password))
		case "login":
			email, password, ok := splitPair(rest)
			if !ok {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			reportAuth(sess.Login(ctx, email, password))
		case "logout":
			sess.Logout()
		case "whoami":
			user, ok := sess.User()
			if !ok {
				fmt.Println("not signed in")
				continue
			}
			fmt.Printf("%s (%s)\n", user.Email, user.ID)
		case "list":
			controller.Refresh()
		case "search":
			controller.SetQuery(rest)
		case "page":
			page, err := strconv.Atoi(rest)
			if err != nil {
				fmt.Println("usage: page <number>")
				continue
			}
			controller.SetPage(page)
		case "show":
			customer, err := client.GetCustomer(ctx, rest)
			if reportCustomerError(sess, err) {
				continue
			}
			printCustomer(customer)
		case "add":
			fields, ok := parseFields(rest)
			if !ok {
				fmt.Println("usage: add <name> | <address> | <phone>")
				continue
			}
			customer, err := client.CreateCustomer(ctx, fields)
			if reportCustomerError(sess, err) {
				continue
			}
			fmt.Printf("created %s\n", customer.ID)
		case "edit":
			id, rest, ok := splitFirst(rest)
			fields, fieldsOK := parseFields(rest)
			if !ok || !fieldsOK {
				fmt.Println("usage: edit <id> <name> | <address> | <phone>")
				continue
			}
			customer, err := client.UpdateCustomer(ctx, id, fields)
			if reportCustomerError(sess, err) {
				continue
			}
			fmt.Printf("updated %s\n", customer.ID)
		case "rm":
			if reportCustomerError(sess, client.DeleteCustomer(ctx, rest)) {
				continue
			}
			fmt.Println("deleted")
		default:
			fmt.Printf("unknown command %q, type 'help'\n", command)
		}
	}
}

func printTransition(event session.Event) {
	switch event.State {
	case session.StateAuthenticated:
		fmt.Printf("signed in as %s\n", event.User.Email)
	case session.StateUnauthenticated:
		if event.Err != nil {
			fmt.Printf("signed out: %s\n", api.Message(event.Err))
		}
	}
}

func printPage(result search.Result) {
	p := result.Page.Pagination
	fmt.Printf("page %d/%d (%d customers)\n", p.CurrentPage, p.TotalPages, p.TotalCustomers)
	for _, customer := range result.Page.Customers {
		fmt.Printf("  %s  %-30s %s\n", customer.ID, customer.Name, customer.Phone)
	}
}

func printCustomer(customer api.Customer) {
	fmt.Printf("%s\n  name:    %s\n  address: %s\n  phone:   %s\n",
		customer.ID, customer.Name, customer.Address, customer.Phone)
}

func printHelp() {
	fmt.Println(`commands:
  register <email> <password>
  login <email> <password>
  logout
  whoami
  list
  search <text>
  page <number>
  show <id>
  add <name> | <address> | <phone>
  edit <id> <name> | <address> | <phone>
  rm <id>
  quit`)
}

func reportAuth(err error) {
	if err == nil {
		return
	}
	for _, field := range api.FieldMessages(err) {
		fmt.Printf("  %s: %s\n", field.Field, field.Message)
	}
}

func reportCustomerError(sess *session.Manager, err error) bool {
	if err == nil {
		return false
	}
	if sess.HandleAPIError(err) {
		return true
	}
	fmt.Printf("error: %s\n", api.Message(err))
	for _, field := range api.FieldMessages(err) {
		fmt.Printf("  %s: %s\n", field.Field, field.Message)
	}
	return true
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	command, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(command), strings.TrimSpace(rest)
}

func splitFirst(input string) (string, string, bool) {
	first, rest, found := strings.Cut(strings.TrimSpace(input), " ")
	if first == "" {
		return "", "", false
	}
	if !found {
		return first, "", true
	}
	return first, strings.TrimSpace(rest), true
}

func splitPair(input string) (string, string, bool) {
	first, second, ok := splitFirst(input)
	if !ok || second == "" {
		return "", "", false
	}
	return first, second, true
}

func parseFields(input string) (api.CustomerFields, bool) {
	parts := strings.Split(input, "|")
	if len(parts) != 3 {
		return api.CustomerFields{}, false
	}
	return api.CustomerFields{
		Name:    strings.TrimSpace(parts[0]),
		Address: strings.TrimSpace(parts[1]),
		Phone:   strings.TrimSpace(parts[2]),
	}, true
}
