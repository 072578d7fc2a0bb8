// Command repairctl is a terminal client for the repair order API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"repairorder/internal/client"
	"repairorder/internal/entity"

	"github.com/sirupsen/logrus"
)

const usage = `usage: repairctl <command> [flags]

commands:
  login -u <username> -p <password>
  logout
  register -u <username> -p <password>
  me
  list [-q <search>]
  get <id>
  create -f <order.json>
  update <id> -f <order.json>
  delete <id>
  export -year <yyyy> -month <m> [-store <name>] [-dir <path>]
  set-url <url>
`

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	sessionPath := os.Getenv("REPAIRCTL_SESSION")
	if sessionPath == "" {
		path, err := client.DefaultSessionPath()
		if err != nil {
			logrus.WithError(err).Fatal("cannot locate session file")
		}
		sessionPath = path
	}

	c, err := client.New(client.NewSessionStore(sessionPath))
	if err != nil {
		logrus.WithError(err).Fatal("cannot load session")
	}
	if envURL := os.Getenv("REPAIRCTL_API_URL"); envURL != "" && c.Session().APIBaseURL == "" {
		c.Session().APIBaseURL = envURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*client.DefaultTimeout)
	defer cancel()

	if err := run(ctx, c, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, err.Error()+": run `repairctl login`")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string) error {
	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		username := fs.String("u", "", "username")
		password := fs.String("p", "", "password")
		_ = fs.Parse(args)
		session, err := c.Login(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", session.User.Username, session.User.Role)
		return nil

	case "logout":
		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		username := fs.String("u", "", "username")
		password := fs.String("p", "", "password")
		_ = fs.Parse(args)
		id, err := c.Register(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Printf("registered user %d, you can now log in\n", id)
		return nil

	case "me":
		user, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s) permissions: %s\n", user.Username, user.Role, strings.Join(user.Permissions, ", "))
		return nil

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		search := fs.String("q", "", "filter by number, device, store, division, inventory or serial")
		_ = fs.Parse(args)
		orders, err := c.ListOrders(ctx, "")
		if err != nil {
			return err
		}
		printOrders(client.FilterOrders(orders, *search))
		return nil

	case "get":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		order, err := c.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(order)

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		file := fs.String("f", "-", "order JSON file, - for stdin")
		_ = fs.Parse(args)
		req, err := readOrder(*file)
		if err != nil {
			return err
		}
		id, err := c.CreateOrder(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("created repair order %d\n", id)
		return nil

	case "update":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if !c.Session().CanEdit() {
			return errors.New("only admin can edit repair orders")
		}
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		file := fs.String("f", "-", "order JSON file, - for stdin")
		_ = fs.Parse(args[1:])
		req, err := readOrder(*file)
		if err != nil {
			return err
		}
		if err := c.UpdateOrder(ctx, id, req); err != nil {
			return err
		}
		fmt.Printf("updated repair order %d\n", id)
		return nil

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if !c.Session().CanEdit() {
			return errors.New("only admin can delete repair orders")
		}
		if err := c.DeleteOrder(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted repair order %d\n", id)
		return nil

	case "export":
		now := time.Now()
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		year := fs.Int("year", now.Year(), "year")
		month := fs.Int("month", int(now.Month()), "month 1-12")
		store := fs.String("store", "", "store name, empty for all stores (admin only)")
		dir := fs.String("dir", ".", "output directory")
		_ = fs.Parse(args)
		path, err := c.Export(ctx, *year, *month, *store, *dir)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil

	case "set-url":
		raw := ""
		if len(args) > 0 {
			raw = args[0]
		}
		if err := c.SetBaseURL(raw); err != nil {
			return err
		}
		fmt.Println("API URL set to", c.Session().BaseURL())
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func parseID(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, errors.New("missing repair order id")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid repair order id %q", args[0])
	}
	return uint(id), nil
}

func readOrder(path string) (entity.RepairOrderRequest, error) {
	var req entity.RepairOrderRequest
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("read order: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode order: %w", err)
	}
	return req, nil
}

func printOrders(orders []entity.DbRepairOrder) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMOR SJ\tTANGGAL\tTOKO\tDIVISI\tPERANGKAT\tREPAIR ORDER")
	for _, o := range orders {
		repair := "No"
		if o.RepairOrder != nil && *o.RepairOrder {
			repair = "Yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.ArrivalNumber, o.ArrivalDate, o.Store, o.Division, o.DeviceName, repair)
	}
	w.Flush()
	fmt.Printf("%d repair order(s)\n", len(orders))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
