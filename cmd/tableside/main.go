// tableside is the walk-in customer client: scan a table, browse the menu,
// fill a cart, check out, and watch the order progress.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tableside/internal/adapter/rest"
	"tableside/internal/app/core"
	"tableside/internal/checkout"
	"tableside/internal/config"
	"tableside/internal/domain/models"
	"tableside/internal/session"
	"tableside/internal/tracker"
	"tableside/pkg/logger"
)

type params struct {
	configPath string
	tableID    string
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("tableside", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path to config yaml")
	tableID := fs.String("table", "", "table id from the scanned code")
	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}
	if *tableID == "" {
		fs.Usage()
		return nil, errors.New("--table is required")
	}
	return &params{configPath: *configPath, tableID: *tableID}, nil
}

func run(ctx context.Context, args []string) error {
	p, err := parseParams(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(p.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mylog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, []string{"stderr"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer mylog.Sync()

	client := rest.NewClient(cfg.Collaborator.BaseURL, cfg.Collaborator.Timeout, mylog)
	sess := session.New()

	table, err := client.FetchTable(ctx, p.tableID)
	if err != nil {
		if core.IsNotFound(err) {
			return fmt.Errorf("table %q is unknown, rescan the code", p.tableID)
		}
		return err
	}
	if err := sess.BindTable(table); err != nil {
		return err
	}
	fmt.Printf("Welcome! You are at %s (table %d, seats %d).\n", table.Name, table.Number, table.Capacity)

	menu, err := client.FetchMenu(ctx)
	if err != nil {
		return err
	}
	items := map[string]models.MenuItem{}
	for _, cat := range menu {
		for _, item := range cat.Items {
			items[item.ID] = item
		}
	}
	printMenu(menu)

	orch := checkout.New(sess, client, client, mylog)
	if err := orch.LoadPaymentMethods(ctx); err != nil {
		return err
	}
	tr := tracker.New(client, cfg.Tracker.PollInterval, mylog)

	repl(ctx, sess, orch, tr, items)
	tr.Detach()
	return nil
}

func repl(ctx context.Context, sess *session.Session, orch *checkout.Orchestrator, tr *tracker.Tracker, items map[string]models.MenuItem) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`Commands: add <item> [qty], qty <item> <n>, note <item> <text>, rm <item>,
cart, methods, method <id>, submit [note], pay, receipt <ref>, status, track, quit`)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "quit", "exit":
			return
		case "add":
			err = cmdAdd(sess, items, args)
		case "qty":
			err = cmdQty(sess, args)
		case "note":
			if len(args) < 2 {
				err = errors.New("usage: note <item> <text>")
			} else {
				sess.Cart().SetNote(args[0], strings.Join(args[1:], " "))
			}
		case "rm":
			if len(args) != 1 {
				err = errors.New("usage: rm <item>")
			} else {
				sess.Cart().Remove(args[0])
			}
		case "cart":
			printCart(sess)
		case "methods":
			for _, m := range sess.PaymentMethods() {
				fmt.Printf("  %-12s %s (%s)\n", m.ID, m.Name, m.Type)
			}
		case "method":
			if len(args) != 1 {
				err = errors.New("usage: method <id>")
			} else {
				err = orch.SelectMethod(args[0])
			}
		case "submit":
			err = cmdSubmit(ctx, orch, strings.Join(args, " "))
		case "pay":
			err = cmdPay(ctx, orch)
		case "receipt":
			if len(args) != 1 {
				err = errors.New("usage: receipt <ref>")
			} else if _, err = orch.UploadReceipt(ctx, args[0]); err == nil {
				fmt.Println("Receipt accepted, the kitchen has your order.")
			}
		case "status":
			err = cmdStatus(ctx, sess, tr)
		case "track":
			err = cmdTrack(ctx, sess, tr)
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}
		if err != nil {
			fmt.Println("error:", err)
		}
	}
}

func cmdAdd(sess *session.Session, items map[string]models.MenuItem, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: add <item> [qty]")
	}
	item, ok := items[args[0]]
	if !ok {
		return fmt.Errorf("unknown menu item %q", args[0])
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[1])
		}
		qty = n
	}
	return sess.Cart().Add(item, qty)
}

func cmdQty(sess *session.Session, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <item> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[1])
	}
	sess.Cart().SetQuantity(args[0], n)
	return nil
}

func cmdSubmit(ctx context.Context, orch *checkout.Orchestrator, note string) error {
	order, err := orch.Submit(ctx, note)
	if err != nil {
		return err
	}
	fmt.Printf("Order %s submitted, total %d. Run `pay` to continue.\n", order.Number, order.TotalAmount)
	return nil
}

func cmdPay(ctx context.Context, orch *checkout.Orchestrator) error {
	payment, err := orch.InitiatePayment(ctx)
	if err != nil {
		return err
	}
	if orch.Stage() == checkout.StageAwaitingReceipt {
		fmt.Printf("Transfer %d and then run `receipt <ref>` with your transaction reference.\n", payment.Amount)
	} else {
		fmt.Println("Payment registered, the kitchen has your order.")
	}
	return nil
}

// cmdStatus binds the tracker to the active order on first use, refreshes,
// and renders the progress checklist.
func cmdStatus(ctx context.Context, sess *session.Session, tr *tracker.Tracker) error {
	if _, ok := tr.Snapshot(); !ok {
		order, ok := sess.ActiveOrder()
		if !ok {
			return errors.New("no active order yet")
		}
		if _, err := tr.Bind(ctx, order.ID); err != nil {
			return err
		}
	} else if err := tr.Refresh(ctx); err != nil && !core.IsTransient(err) && !core.IsState(err) {
		// transient failures degrade to the stale snapshot; a detached
		// tracker still renders its last-known-good state
		return err
	}

	snap, _ := tr.Snapshot()
	sess.SetActiveOrder(snap)
	printProgress(tr, snap)
	return nil
}

// cmdTrack starts the poll loop and renders the checklist whenever the status
// changes, until the order reaches a terminal phase.
func cmdTrack(ctx context.Context, sess *session.Session, tr *tracker.Tracker) error {
	if _, ok := tr.Snapshot(); !ok {
		order, ok := sess.ActiveOrder()
		if !ok {
			return errors.New("no active order yet")
		}
		if _, err := tr.Bind(ctx, order.ID); err != nil {
			return err
		}
	}

	tr.Start(ctx)
	var last models.OrderStatus
	for {
		snap, _ := tr.Snapshot()
		if snap.Status != last {
			last = snap.Status
			sess.SetActiveOrder(snap)
			printProgress(tr, snap)
		}
		if tr.Phase() == tracker.PhaseTerminal {
			tr.Detach()
			return nil
		}
		select {
		case <-ctx.Done():
			tr.Detach()
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func printProgress(tr *tracker.Tracker, order models.Order) {
	steps, rejected := tr.Steps()
	if rejected {
		fmt.Printf("Order %s was REJECTED. Please see the staff.\n", order.Number)
		return
	}
	fmt.Printf("Order %s (%s)", order.Number, order.Status)
	if tr.Stale() {
		fmt.Print(" [stale, last known state]")
	}
	fmt.Println()
	for _, step := range steps {
		mark := " "
		switch step.State {
		case tracker.StepCompleted:
			mark = "x"
		case tracker.StepActive:
			mark = ">"
		}
		fmt.Printf("  [%s] %s\n", mark, step.Status)
	}
	if tr.Phase() == tracker.PhaseTerminal {
		fmt.Println("Your order can no longer change. Enjoy!")
	}
}

func printMenu(menu []models.MenuCategory) {
	for _, cat := range menu {
		fmt.Printf("%s\n", cat.Name)
		for _, item := range cat.Items {
			if !item.Available {
				fmt.Printf("  %-4s %-18s %6d  (unavailable)\n", item.ID, item.Name, item.Price)
				continue
			}
			fmt.Printf("  %-4s %-18s %6d  %s\n", item.ID, item.Name, item.Price, item.Description)
		}
	}
}

func printCart(sess *session.Session) {
	crt := sess.Cart()
	if crt.Empty() {
		fmt.Println("Cart is empty.")
		return
	}
	for _, line := range crt.Lines() {
		fmt.Printf("  %dx %-18s %6d", line.Quantity, line.Item.Name, line.Subtotal())
		if line.Note != "" {
			fmt.Printf("  (%s)", line.Note)
		}
		fmt.Println()
	}
	fmt.Printf("  %d items, total %d\n", crt.ItemCount(), crt.Total())
}
