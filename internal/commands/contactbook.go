package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"homebook/internal/contacts"
	"homebook/internal/core"
)

// NewContactbookCommand creates the contactbook root command with all
// subcommands registered.
func NewContactbookCommand(env *Env) *cobra.Command {
	var file string

	rootCmd := newRoot("contactbook", "Keep a small address book in a JSON file")
	rootCmd.PersistentFlags().StringVar(&file, "file", "", "contacts file (default $CONTACTS_FILE or contacts.json)")

	open := func() *contacts.Store {
		path := file
		if path == "" {
			path = env.Config.ContactsFile
		}
		return contacts.Open(path, env.Logger)
	}

	rootCmd.AddCommand(
		newContactListCommand(open),
		newContactSearchCommand(open),
		newContactAddCommand(open),
		newContactUpdateCommand(open),
		newContactDeleteCommand(open),
	)
	return rootCmd
}

func newContactListCommand(open func() *contacts.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printContacts(cmd.OutOrStdout(), open().List())
		},
	}
}

func newContactSearchCommand(open func() *contacts.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Find contacts whose name contains TERM (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printContacts(cmd.OutOrStdout(), open().Search(args[0]))
		},
	}
}

func newContactAddCommand(open func() *contacts.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME PHONE [EMAIL]",
		Short: "Add a contact",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) == 3 {
				email = args[2]
			}
			if err := open().Add(args[0], args[1], email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact added successfully!")
			return nil
		},
	}
}

func newContactUpdateCommand(open func() *contacts.Store) *cobra.Command {
	var name, phone, email string

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Change a contact; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := open()
			current, err := store.Get(args[0])
			if err != nil {
				return err
			}
			next := current
			if cmd.Flags().Changed("name") {
				next.Name = name
			}
			if cmd.Flags().Changed("phone") {
				next.Phone = phone
			}
			if cmd.Flags().Changed("email") {
				next.Email = email
			}
			if err := store.Update(current.Name, next.Name, next.Phone, next.Email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact updated successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone")
	cmd.Flags().StringVar(&email, "email", "", "new email (empty clears it)")
	return cmd
}

func newContactDeleteCommand(open func() *contacts.Store) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete every contact with exactly this name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := open()
			w := cmd.OutOrStdout()
			c, err := store.Get(args[0])
			if errors.Is(err, core.ErrNotFound) {
				fmt.Fprintf(w, "No contact named %q.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), w,
					fmt.Sprintf("Delete contact %s (%s)? [y/N]: ", c.Name, c.Phone))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(w, "Aborted.")
					return nil
				}
			}
			if err := store.Delete(c.Name); err != nil {
				return err
			}
			fmt.Fprintln(w, "Contact deleted successfully!")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func printContacts(w io.Writer, list []core.Contact) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No contacts found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHONE\tEMAIL")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Phone, c.Email)
	}
	return tw.Flush()
}
