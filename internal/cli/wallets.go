package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/services"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) AddWallet(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	name, err := getSimpleText(a.in, "Wallet name", a.out)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.in, "Wallet address", a.out)
	if err != nil {
		return err
	}
	pk, err := getSecret(a.out, "Private key (optional)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pk)

	id, err := a.vault.AddWallet(ctx, a.username, a.password, services.WalletInput{
		Name:       name,
		Address:    address,
		PrivateKey: string(pk),
	})
	if err != nil {
		return err
	}
	a.printf("Wallet %d added\n", id)
	return nil
}

func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ws, err := a.vault.GetWallets(ctx, a.username, a.password)
	if err != nil {
		return err
	}
	if len(ws) == 0 {
		a.printf("No wallets\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tCREATED")
	for _, w := range ws {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.ID, w.Name, w.Address, formatTime(w.CreatedAt))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	w, err := a.vault.GetWallet(ctx, a.username, a.password, id)
	if err != nil {
		return err
	}
	a.printWallet(*w)
	return nil
}

func (a *App) printWallet(w models.WalletView) {
	a.printf("ID:      %d\n", w.ID)
	a.printf("Name:    %s\n", w.Name)
	a.printf("Address: %s\n", w.Address)
	a.printf("Created: %s\n", formatTime(w.CreatedAt))
	if w.UpdatedAt != nil {
		a.printf("Updated: %s\n", formatTime(*w.UpdatedAt))
	}
}

func (a *App) PrivateKey(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	pk, err := a.vault.GetWalletPrivateKey(ctx, a.username, a.password, id)
	if err != nil {
		return err
	}
	if pk == "" {
		a.printf("No private key stored\n")
		return nil
	}
	a.printf("Private key: %s\n", pk)
	return nil
}

func (a *App) Update(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.in, "New name", a.out)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.in, "New address", a.out)
	if err != nil {
		return err
	}
	if err := a.vault.UpdateWallet(ctx, a.username, a.password, id, services.WalletInput{Name: name, Address: address}); err != nil {
		return err
	}
	a.printf("Wallet %d saved\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.in, "Delete the wallet and all its notes? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.printf("Cancelled\n")
		return nil
	}
	if err := a.vault.DeleteWallet(ctx, a.username, a.password, id); err != nil {
		return err
	}
	a.printf("Wallet %d deleted\n", id)
	return nil
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
