package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli"

	"github.com/maaku/libwebcash/amount"
	"github.com/maaku/libwebcash/claimcode"
	"github.com/maaku/libwebcash/derive"
	"github.com/maaku/libwebcash/internal/memfacade"
	"github.com/maaku/libwebcash/serverconn"
	"github.com/maaku/libwebcash/storage"
	"github.com/maaku/libwebcash/storage/boltstore"
	"github.com/maaku/libwebcash/wallet"
	"github.com/maaku/libwebcash/walletui"
	"github.com/maaku/libwebcash/webcash"
)

var amountCommand = cli.Command{
	Name:  "amount",
	Usage: "parse or format canonical fixed-point amounts",
	Subcommands: []cli.Command{
		{
			Name:      "parse",
			Usage:     "parse a lexical amount, flagging noncanonical input",
			ArgsUsage: "amount-string",
			Action:    amountParse,
		},
		{
			Name:      "format",
			Usage:     "format a raw scaled-integer amount canonically",
			ArgsUsage: "scaled-integer",
			Action:    amountFormat,
		},
	},
}

func amountParse(ctx *cli.Context) error {
	s := ctx.Args().First()
	if s == "" {
		return cli.NewExitError("usage: amount parse <amount-string>", 1)
	}
	a, noncanonical, err := amount.Parse(s)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("%d (noncanonical=%v)\n", a, noncanonical)
	return nil
}

func amountFormat(ctx *cli.Context) error {
	raw := ctx.Args().First()
	if raw == "" {
		return cli.NewExitError("usage: amount format <scaled-integer>", 1)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(amount.Format(amount.Amount(v)))
	return nil
}

var claimcodeCommand = cli.Command{
	Name:  "claimcode",
	Usage: "encode or decode claim codes",
	Subcommands: []cli.Command{
		{
			Name:      "encode-secret",
			Usage:     "build a secret claim code from an amount and serial",
			ArgsUsage: "amount serial",
			Action:    claimcodeEncodeSecret,
		},
		{
			Name:      "encode-public",
			Usage:     "derive and encode the public claim code of a secret",
			ArgsUsage: "amount serial",
			Action:    claimcodeEncodePublic,
		},
		{
			Name:      "decode",
			Usage:     "decode any claim code and print its fields",
			ArgsUsage: "claim-code",
			Action:    claimcodeDecode,
		},
	},
}

func claimcodeEncodeSecret(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError("usage: claimcode encode-secret <amount> <serial>", 1)
	}
	amt, _, err := amount.Parse(args[0])
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	sec := webcash.NewSecretFromString(amt, args[1])
	s, err := claimcode.SerializeSecret(sec)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(s)
	return nil
}

func claimcodeEncodePublic(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError("usage: claimcode encode-public <amount> <serial>", 1)
	}
	amt, _, err := amount.Parse(args[0])
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	sec := webcash.NewSecretFromString(amt, args[1])
	pub := webcash.PublicFromSecret(sec)
	s, err := claimcode.SerializePublic(pub)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(s)
	return nil
}

func claimcodeDecode(ctx *cli.Context) error {
	s := ctx.Args().First()
	if s == "" {
		return cli.NewExitError("usage: claimcode decode <claim-code>", 1)
	}
	if sec, noncanonical, err := claimcode.ParseSecret(s); err == nil {
		fmt.Printf("kind=secret amount=%s serial=%q noncanonical=%v\n",
			amount.Format(sec.Amount), string(sec.Serial), noncanonical)
		return nil
	}
	if pub, noncanonical, err := claimcode.ParsePublic(s); err == nil {
		fmt.Printf("kind=public amount=%s hash=%s noncanonical=%v\n",
			amount.Format(pub.Amount), pub.Hash.String(), noncanonical)
		return nil
	}
	return cli.NewExitError("not a recognizable claim code", 1)
}

var deriveCommand = cli.Command{
	Name:      "derive",
	Usage:     "derive a run of serials from a root, chaincode, and starting depth",
	ArgsUsage: "root-hex chaincode start count",
	Action:    deriveSerials,
}

func deriveSerials(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 4 {
		return cli.NewExitError("usage: derive <root-hex> <chaincode> <start> <count>", 1)
	}
	rootBytes, err := hex.DecodeString(args[0])
	if err != nil || len(rootBytes) != 32 {
		return cli.NewExitError("root must be 64 hex characters", 1)
	}
	var root [32]byte
	copy(root[:], rootBytes)

	chaincode, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	start, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	count, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	buf := derive.DeriveMany(root, chaincode, start, count)
	for i := uint64(0); i < count; i++ {
		fmt.Println(string(buf[i*64 : i*64+64]))
	}
	return nil
}

var termsCommand = cli.Command{
	Name:      "terms",
	Usage:     "drive the terms-of-service protocol against an in-memory server/UI pair",
	ArgsUsage: "terms-text <accept|reject>",
	Action:    termsDemo,
}

func termsDemo(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError("usage: terms <terms-text> <accept|reject>", 1)
	}
	text := args[0]
	var autoAccept bool
	switch args[1] {
	case "accept":
		autoAccept = true
	case "reject":
		autoAccept = false
	default:
		return cli.NewExitError("second argument must be accept or reject", 1)
	}

	cfg := ctx.App.Metadata["config"].(*config)
	dbPath := filepath.Join(cfg.DataDir, "webcashctl.db")
	logPath := filepath.Join(cfg.DataDir, "webcashctl.log")

	st, err := storage.Open(boltstore.NewBackend(), logPath, dbPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	sv, err := serverconn.Connect(memfacade.Server(text), "mem://server")
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	ui, err := walletui.Startup(memfacade.UI(autoAccept))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	wctx := wallet.New(st, sv, ui)
	defer wctx.Close()

	gotText, accepted, when, err := wctx.EnsureTerms()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if accepted {
		fmt.Printf("accepted %q at %s\n", gotText, when)
	} else {
		fmt.Printf("rejected %q\n", gotText)
	}
	return nil
}
