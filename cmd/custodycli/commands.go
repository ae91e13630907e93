package main

import (
	"fmt"
	"io"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/cmd/custodyd/client"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/escrow"
	"github.com/spf13/cobra"
)

// cli holds the configuration shared by all commands.
type cli struct {
	configPath string
	conf       Config
	// flag overrides
	node    string
	chainID string
	key     string

	connect func(node string) client.Conn
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "custodycli",
		Short:         "Open and settle escrows on a custody chain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			if c.node != "" {
				conf.Node = c.node
			}
			if c.chainID != "" {
				conf.ChainID = c.chainID
			}
			if c.key != "" {
				conf.Key = c.key
			}
			c.conf = conf
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "configuration file")
	root.PersistentFlags().StringVar(&c.node, "node", "", "tendermint rpc address, overrides the configuration")
	root.PersistentFlags().StringVar(&c.chainID, "chain-id", "", "chain id, overrides the configuration")
	root.PersistentFlags().StringVar(&c.key, "key", "", "private key file, overrides the configuration")

	root.AddCommand(
		c.keygenCmd(),
		c.configCmd(),
		c.deriveCmd(),
		c.openCmd(),
		c.acceptCmd(),
		c.cancelCmd(),
		c.showCmd(),
		c.listCmd(),
		c.balanceCmd(),
		c.sendCmd(),
		c.issueCmd(),
	)
	return root
}

func (c *cli) client() (*client.Client, error) {
	if c.conf.ChainID == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "chain id is not configured")
	}
	return client.NewClient(c.connect(c.conf.Node), c.conf.ChainID), nil
}

func (c *cli) signer() (*crypto.PrivateKey, error) {
	return loadKey(c.conf.Key)
}

func (c *cli) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Create a new private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := crypto.GenPrivKeyEd25519()
			if err := saveKey(c.conf.Key, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey())
			return nil
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Write the current settings into the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveConfig(c.configPath, c.conf)
		},
	}
}

func (c *cli) deriveCmd() *cobra.Command {
	var sender, recipient string
	var id uint64
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the escrow address for given parties and id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			s, err := c.identityOrSelf(sender)
			if err != nil {
				return err
			}
			r, err := custody.ParseIdentity(recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			addr, bump, err := cl.Derive(s, r, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", addr, bump)
			return nil
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "sender identity, defaults to own key")
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient identity")
	cmd.Flags().Uint64Var(&id, "id", 0, "escrow id")
	return cmd
}

func (c *cli) openCmd() *cobra.Command {
	var recipient string
	var amount, id uint64
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Lock coins in a new escrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, key, err := c.signingClient()
			if err != nil {
				return err
			}
			r, err := custody.ParseIdentity(recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			addr, err := cl.Open(key, r, amount, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient identity")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "coins to lock")
	cmd.Flags().Uint64Var(&id, "id", 0, "escrow id, unique per sender and recipient")
	return cmd
}

func (c *cli) acceptCmd() *cobra.Command {
	var sender string
	var id uint64
	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Receive the coins of an escrow payable to own key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, key, err := c.signingClient()
			if err != nil {
				return err
			}
			s, err := custody.ParseIdentity(sender)
			if err != nil {
				return errors.Wrap(err, "sender")
			}
			return cl.Accept(key, s, id)
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "sender identity")
	cmd.Flags().Uint64Var(&id, "id", 0, "escrow id")
	return cmd
}

func (c *cli) cancelCmd() *cobra.Command {
	var recipient string
	var id uint64
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Return the coins of an escrow funded by own key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, key, err := c.signingClient()
			if err != nil {
				return err
			}
			r, err := custody.ParseIdentity(recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			return cl.Cancel(key, r, id)
		},
	}
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient identity")
	cmd.Flags().Uint64Var(&id, "id", 0, "escrow id")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <address>",
		Short: "Print an open escrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			addr, err := custody.ParseAddress(args[0])
			if err != nil {
				return err
			}
			e, err := cl.Escrow(addr)
			if err != nil {
				return err
			}
			printEscrows(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var received bool
	cmd := &cobra.Command{
		Use:   "list [identity]",
		Short: "Print the open escrows funded by, or payable to, an identity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			id, err := c.identityOrSelf(raw)
			if err != nil {
				return err
			}
			var list []*escrow.Escrow
			if received {
				list, err = cl.EscrowsByRecipient(id)
			} else {
				list, err = cl.EscrowsBySender(id)
			}
			if err != nil {
				return err
			}
			printEscrows(cmd.OutOrStdout(), list...)
			return nil
		},
	}
	cmd.Flags().BoolVar(&received, "received", false, "list escrows payable to the identity")
	return cmd
}

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the coins held by an address, defaults to own key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			var addr custody.Address
			if len(args) == 1 {
				addr, err = custody.ParseAddress(args[0])
			} else {
				var id custody.Identity
				id, err = c.identityOrSelf("")
				addr = id.Address()
			}
			if err != nil {
				return err
			}
			balance, err := cl.Balance(addr)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), balance)
			return nil
		},
	}
}

func (c *cli) sendCmd() *cobra.Command {
	var to, memo string
	var amount uint64
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Move coins from own wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, key, err := c.signingClient()
			if err != nil {
				return err
			}
			dest, err := custody.ParseAddress(to)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			return cl.Send(key, dest, amount, memo)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination address")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "coins to send")
	cmd.Flags().StringVar(&memo, "memo", "", "optional note")
	return cmd
}

func (c *cli) issueCmd() *cobra.Command {
	var to string
	var amount uint64
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create new coins, own key must be the minter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, key, err := c.signingClient()
			if err != nil {
				return err
			}
			dest, err := custody.ParseAddress(to)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			return cl.Issue(key, dest, amount)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination address")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "coins to create")
	return cmd
}

func (c *cli) signingClient() (*client.Client, *crypto.PrivateKey, error) {
	cl, err := c.client()
	if err != nil {
		return nil, nil, err
	}
	key, err := c.signer()
	if err != nil {
		return nil, nil, err
	}
	return cl, key, nil
}

// identityOrSelf parses raw, falling back to the public key of own key.
func (c *cli) identityOrSelf(raw string) (custody.Identity, error) {
	if raw != "" {
		return custody.ParseIdentity(raw)
	}
	key, err := c.signer()
	if err != nil {
		return nil, err
	}
	return key.PublicKey(), nil
}

func printEscrows(w io.Writer, list ...*escrow.Escrow) {
	for _, e := range list {
		fmt.Fprintf(w, "id=%d sender=%s recipient=%s amount=%d created=%s bump=%d\n",
			e.EscrowID, e.Sender, e.Recipient, e.Amount,
			e.CreatedAt.Time().UTC().Format("2006-01-02T15:04:05Z"), e.Bump)
	}
}
