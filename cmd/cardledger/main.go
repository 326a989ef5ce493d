// Command cardledger is a maintenance CLI over a local card ledger
// database. It exposes the store operations the mobile UI drives in-process:
// listing cards and transactions, recording new ones, and computing
// balances.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cardledger/internal/cli"
	"cardledger/internal/core"
	"cardledger/internal/log"
	"cardledger/internal/photo"
	"cardledger/internal/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: cardledger <command> [flags]

commands:
  cards                       list cards, newest first
  transactions -card <id>     list a card's transactions (optionally -category <id>)
  balance -card <id>          print a card's balance
  add-card                    create a card (-name -number -limit -month -year -type)
  delete-card -card <id>      delete a card and its transactions
  add-transaction             record a transaction (-card -name -amount [-photo file])
  categories                  list categories, newest first
  add-category -name <name>   create a category
`)
	os.Exit(2)
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	result := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Store cleanup failed", log.FieldError, err)
		}
	}()

	svc := services.NewLedgerService(result.Store, photo.NewProcessor(cfg.PhotoWorkers))

	if err := run(ctx, svc, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("Command failed", "command", os.Args[1], log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.LedgerService, command string, args []string) error {
	switch command {
	case "cards":
		return listCards(ctx, svc)
	case "transactions":
		return listTransactions(ctx, svc, args)
	case "balance":
		return printBalance(ctx, svc, args)
	case "add-card":
		return addCard(ctx, svc, args)
	case "delete-card":
		return deleteCard(ctx, svc, args)
	case "add-transaction":
		return addTransaction(ctx, svc, args)
	case "categories":
		return listCategories(ctx, svc)
	case "add-category":
		return addCategory(ctx, svc, args)
	default:
		usage()
		return nil
	}
}

func listCards(ctx context.Context, svc *services.LedgerService) error {
	cards, err := svc.Cards(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("no cards in the ledger")
		return nil
	}
	for _, card := range cards {
		balance, err := svc.Balance(ctx, card.ID)
		if err != nil {
			return err
		}
		color := core.ColorOrDefault(card.Color)
		fmt.Printf("%s  %-20s %-10s limit=%-8d exp=%02d/%d  balance=%.2f  color=#%02x%02x%02x\n",
			card.ID, card.Name, card.Type, card.Limit, card.ExpMonth, card.ExpYear,
			balance, color.R, color.G, color.B)
	}
	return nil
}

func listTransactions(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	cardID := fs.String("card", "", "card id")
	category := fs.String("category", "", "filter to a category id")
	fs.Parse(args)
	if *cardID == "" {
		return fmt.Errorf("missing -card")
	}

	var selected []string
	if *category != "" {
		selected = []string{*category}
	}
	txs, err := svc.Transactions(ctx, *cardID, selected)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		photoNote := ""
		if len(tx.Photo) > 0 {
			photoNote = fmt.Sprintf("  photo=%dB", len(tx.Photo))
		}
		fmt.Printf("%s  %s  %-24s %10.2f%s\n",
			tx.ID, tx.Timestamp.Format("2006-01-02"), tx.Name, tx.Amount, photoNote)
	}
	return nil
}

func printBalance(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	cardID := fs.String("card", "", "card id")
	fs.Parse(args)
	if *cardID == "" {
		return fmt.Errorf("missing -card")
	}

	balance, err := svc.Balance(ctx, *cardID)
	if err != nil {
		return err
	}
	fmt.Printf("%.2f\n", balance)
	return nil
}

func addCard(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("add-card", flag.ExitOnError)
	name := fs.String("name", "", "card name")
	number := fs.String("number", "", "card number (display only)")
	limit := fs.String("limit", "0", "credit limit")
	month := fs.Int("month", int(time.Now().Month()), "expiration month")
	year := fs.Int("year", time.Now().Year()+3, "expiration year")
	cardType := fs.String("type", string(core.Visa), "card network type")
	fs.Parse(args)

	created, err := svc.CreateCard(ctx, services.CardForm{
		Name:      *name,
		Number:    *number,
		LimitText: *limit,
		ExpMonth:  *month,
		ExpYear:   *year,
		Type:      core.CardType(*cardType),
		Color:     core.DefaultCardColor,
	}, nil)
	if err != nil {
		return err
	}
	fmt.Println(created.ID)
	return nil
}

func deleteCard(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("delete-card", flag.ExitOnError)
	cardID := fs.String("card", "", "card id")
	fs.Parse(args)
	if *cardID == "" {
		return fmt.Errorf("missing -card")
	}
	return svc.DeleteCard(ctx, *cardID)
}

func addTransaction(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("add-transaction", flag.ExitOnError)
	cardID := fs.String("card", "", "card id")
	name := fs.String("name", "", "transaction name")
	amount := fs.String("amount", "", "amount, signed")
	photoPath := fs.String("photo", "", "path to a receipt photo")
	fs.Parse(args)
	if *cardID == "" {
		return fmt.Errorf("missing -card")
	}

	var photoData []byte
	if *photoPath != "" {
		data, err := os.ReadFile(*photoPath)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		photoData = data
	}

	created, err := svc.AddTransaction(ctx, services.TransactionForm{
		CardID:     *cardID,
		Name:       *name,
		AmountText: *amount,
		Date:       time.Now().UTC(),
		Photo:      photoData,
	})
	if err != nil {
		return err
	}
	fmt.Println(created.ID)
	return nil
}

func listCategories(ctx context.Context, svc *services.LedgerService) error {
	cats, err := svc.Categories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range cats {
		color := core.ColorOrDefault(cat.Color)
		fmt.Printf("%s  %-20s color=#%02x%02x%02x\n", cat.ID, cat.Name, color.R, color.G, color.B)
	}
	return nil
}

func addCategory(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("add-category", flag.ExitOnError)
	name := fs.String("name", "", "category name")
	fs.Parse(args)

	created, err := svc.CreateCategory(ctx, *name, core.DefaultCardColor)
	if err != nil {
		return err
	}
	fmt.Println(created.ID)
	return nil
}
