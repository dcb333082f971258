// Quill CLI - parse, encode, decode, hash, and store program values
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/quill/dist"
	"github.com/chazu/quill/hash"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/serialize"
	"github.com/chazu/quill/store"
)

var errUsage = errors.New("usage")

// env is the configuration every command runs under.
type env struct {
	network   network.Params
	storePath string
}

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0-4)")
	netName := flag.String("network", "", "Network name: testnet or devnet (overrides quill.toml)")
	storePath := flag.String("store", "", "Content store path (overrides quill.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quill [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  parse <kind> <text>          Show the display form, encodings, and hash\n")
		fmt.Fprintf(os.Stderr, "  encode [-u] <kind> <text>    Print the canonical encoding as hex\n")
		fmt.Fprintf(os.Stderr, "  decode [-u] [-unchecked] <kind> <hex>\n")
		fmt.Fprintf(os.Stderr, "                               Decode hex and print the display form\n")
		fmt.Fprintf(os.Stderr, "  hash <kind> <text>           Print the content hash\n")
		fmt.Fprintf(os.Stderr, "  seal <kind> <text>           Print a CBOR envelope as hex\n")
		fmt.Fprintf(os.Stderr, "  open <hex>                   Verify and open a CBOR envelope\n")
		fmt.Fprintf(os.Stderr, "  store put <kind> <text>      Store a value, print its hash\n")
		fmt.Fprintf(os.Stderr, "  store get <hash>             Load a stored value\n")
		fmt.Fprintf(os.Stderr, "  store list <kind>            List stored hashes of a kind\n")
		fmt.Fprintf(os.Stderr, "  store path                   Print the store database path\n")
		fmt.Fprintf(os.Stderr, "\nKinds: identifier, literal-type, element-type, u32, field, group, access, array\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  quill parse access .owner\n")
		fmt.Fprintf(os.Stderr, "  quill -network devnet parse array \"[field; 4]\"\n")
		fmt.Fprintf(os.Stderr, "  quill decode access 0105000000\n")
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	e, err := loadEnv(".", *netName, *storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(e, flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			flag.Usage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadEnv resolves the network and store path from quill.toml (found by
// walking up from dir) and the command-line overrides.
func loadEnv(dir, netName, storePath string) (env, error) {
	e := env{network: network.Testnet}

	c, err := network.FindAndLoad(dir)
	if err != nil {
		return e, err
	}
	if c != nil {
		e.network = c.Network
		e.storePath = c.Store.Path
	}

	if netName != "" {
		p, ok := network.Known(netName)
		if !ok {
			return e, fmt.Errorf("%w: unknown network %q", network.ErrInvalidParams, netName)
		}
		e.network = p
	}
	if storePath != "" {
		e.storePath = storePath
	}
	if e.storePath == "" {
		e.storePath = filepath.Join(dir, ".quill", "values.db")
	}
	return e, nil
}

// run executes one command, writing its output to out.
func run(e env, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "parse":
		return cmdParse(e, args[1:], out)
	case "encode":
		return cmdEncode(e, args[1:], out)
	case "decode":
		return cmdDecode(e, args[1:], out)
	case "hash":
		return cmdHash(e, args[1:], out)
	case "seal":
		return cmdSeal(e, args[1:], out)
	case "open":
		return cmdOpen(e, args[1:], out)
	case "store":
		return cmdStore(e, args[1:], out)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// kindAndValue parses the common "<kind> <text>" argument pair.
func kindAndValue(e env, args []string) (serialize.CanonicalSerialize, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: expected <kind> <text>", errUsage)
	}
	kind, err := hash.ParseKind(args[0])
	if err != nil {
		return nil, err
	}
	return parseValue(kind, e.network, args[1])
}

func cmdParse(e env, args []string, out io.Writer) error {
	v, err := kindAndValue(e, args)
	if err != nil {
		return err
	}
	h, err := hash.Sum(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "value:        %v\n", v)
	for _, c := range []serialize.Compress{serialize.CompressYes, serialize.CompressNo} {
		data, err := serialize.ToBytes(v, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-13s %s (%d bytes)\n", c.String()+":", hex.EncodeToString(data), len(data))
	}
	fmt.Fprintf(out, "hash:         %s\n", h)
	return nil
}

func cmdEncode(e env, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	uncompressed := fs.Bool("u", false, "Uncompressed encoding")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	v, err := kindAndValue(e, fs.Args())
	if err != nil {
		return err
	}
	c := serialize.CompressYes
	if *uncompressed {
		c = serialize.CompressNo
	}
	data, err := serialize.ToBytes(v, c)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(data))
	return nil
}

func cmdDecode(e env, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	uncompressed := fs.Bool("u", false, "Input is the uncompressed encoding")
	unchecked := fs.Bool("unchecked", false, "Skip validation (trusted input only)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <kind> <hex>", errUsage)
	}
	kind, err := hash.ParseKind(fs.Arg(0))
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	c, v := serialize.CompressYes, serialize.ValidateYes
	if *uncompressed {
		c = serialize.CompressNo
	}
	if *unchecked {
		v = serialize.ValidateNo
	}
	val, err := dist.DecodeKind(kind, e.network, data, c, v)
	if err != nil {
		commonlog.GetLogger("quill").Error("decode failed", "kind", kind.String(), "mode", c.String(), "error", err.Error())
		return err
	}
	fmt.Fprintln(out, val)
	return nil
}

func cmdHash(e env, args []string, out io.Writer) error {
	v, err := kindAndValue(e, args)
	if err != nil {
		return err
	}
	h, err := hash.Sum(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, h)
	return nil
}

func cmdSeal(e env, args []string, out io.Writer) error {
	v, err := kindAndValue(e, args)
	if err != nil {
		return err
	}
	sealed, err := dist.Seal(e.network, v)
	if err != nil {
		return err
	}
	data, err := dist.MarshalEnvelope(sealed)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(data))
	return nil
}

func cmdOpen(e env, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <hex>", errUsage)
	}
	data, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	envelope, err := dist.UnmarshalEnvelope(data)
	if err != nil {
		return err
	}
	v, err := dist.OpenAny(envelope, e.network)
	if err != nil {
		commonlog.GetLogger("quill").Error("open failed", "id", envelope.ID, "error", err.Error())
		return err
	}
	fmt.Fprintf(out, "%s %s %v\n", envelope.ID, envelope.Kind, v)
	return nil
}

func cmdStore(e env, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected store put|get|list|path", errUsage)
	}

	s, err := store.Open(e.storePath, e.network)
	if err != nil {
		return err
	}
	defer s.Close()
	commonlog.GetLogger("quill").Debug("using store", "path", s.Path(), "network", e.network.Name)

	switch args[0] {
	case "path":
		fmt.Fprintln(out, s.Path())
		return nil

	case "put":
		v, err := kindAndValue(e, args[1:])
		if err != nil {
			return err
		}
		h, err := s.Put(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, h)
		return nil

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("%w: expected store get <hash>", errUsage)
		}
		h, err := hash.Parse(args[1])
		if err != nil {
			return err
		}
		v, err := s.Get(h)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil

	case "list":
		if len(args) != 2 {
			return fmt.Errorf("%w: expected store list <kind>", errUsage)
		}
		kind, err := hash.ParseKind(args[1])
		if err != nil {
			return err
		}
		hs, err := s.Hashes(kind)
		if err != nil {
			return err
		}
		for _, h := range hs {
			fmt.Fprintln(out, h)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown store command %q", errUsage, args[0])
}
