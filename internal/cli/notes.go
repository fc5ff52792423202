package cli

import "context"

func (a *App) AddNote(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	walletID, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.in, "Note text", a.out)
	if err != nil {
		return err
	}
	id, err := a.vault.AddNote(ctx, a.username, a.password, walletID, text)
	if err != nil {
		return err
	}
	a.printf("Note %d added\n", id)
	return nil
}

func (a *App) Notes(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	walletID, err := getID(a.in, "Wallet id", a.out)
	if err != nil {
		return err
	}
	notes, err := a.vault.GetNotes(ctx, a.username, a.password, walletID)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		a.printf("No notes\n")
		return nil
	}
	for _, n := range notes {
		a.printf("[%d] %s\n%s\n\n", n.ID, formatTime(n.CreatedAt), n.Note)
	}
	return nil
}

func (a *App) DeleteNote(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := getID(a.in, "Note id", a.out)
	if err != nil {
		return err
	}
	if err := a.vault.DeleteNote(ctx, a.username, a.password, id); err != nil {
		return err
	}
	a.printf("Note %d deleted\n", id)
	return nil
}
