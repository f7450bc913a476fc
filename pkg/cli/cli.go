package cli

import (
	"flag"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/swagftw/pychain/types"
	"github.com/swagftw/pychain/utl/server"
)

var ErrUsage = errors.New("invalid usage")

// CommandLine drives a running pychain api.
type CommandLine struct {
	APIURL string
}

// PrintUsage prints the usage
func (cli *CommandLine) printUsage() {
	pterm.Println("Usage:")
	pterm.Println(" addblock -sender SENDER -receiver RECEIVER -amount AMOUNT -creator ID - Mine a block for the transfer and append it")
	pterm.Println(" printchain - Print all the blocks of the blockchain")
	pterm.Println(" validate - Check that every block links to its predecessor")
	pterm.Println(" difficulty [-set N] - Show or change the mining difficulty")
	pterm.Println(" inspect -hash HASH - Show a single block")
	pterm.Println(" records -party NAME - Print the blocks sent or received by NAME")
}

func (cli *CommandLine) endpoint(path string) string {
	return cli.APIURL + "/v1/chain" + path
}

// printChain prints the Blockchain
func (cli *CommandLine) printChain() error {
	chain := new(types.Blockchain)

	if err := server.SendRequest(http.MethodGet, cli.endpoint(""), nil, chain); err != nil {
		return err
	}

	pterm.Info.Printfln("Difficulty: %d", chain.Difficulty)

	return renderBlocks(chain.Blocks)
}

func (cli *CommandLine) addBlock(sender, receiver string, amount float64, creatorID int) error {
	block := new(types.Block)
	request := &types.AddRecord{Sender: sender, Receiver: receiver, Amount: amount, CreatorID: creatorID}

	if err := server.SendRequest(http.MethodPost, cli.endpoint("/blocks"), request, block); err != nil {
		return err
	}

	pterm.Success.Printfln("Block %d mined with nonce %d: %s", block.Index, block.Nonce, block.Hash)

	return nil
}

func (cli *CommandLine) validate() error {
	validation := new(types.Validation)

	if err := server.SendRequest(http.MethodGet, cli.endpoint("/validate"), nil, validation); err != nil {
		return err
	}

	if !validation.Valid {
		pterm.Error.Printfln("Blockchain is invalid at block %d of %d", validation.FirstInvalid, validation.Length)

		return nil
	}

	pterm.Success.Printfln("Blockchain is valid (%d blocks)", validation.Length)

	return nil
}

func (cli *CommandLine) difficulty(set int) error {
	difficulty := new(types.Difficulty)

	var err error
	if set < 0 {
		err = server.SendRequest(http.MethodGet, cli.endpoint("/difficulty"), nil, difficulty)
	} else {
		err = server.SendRequest(http.MethodPut, cli.endpoint("/difficulty"), &types.Difficulty{Difficulty: set}, difficulty)
	}

	if err != nil {
		return err
	}

	pterm.Info.Printfln("Difficulty: %d", difficulty.Difficulty)

	return nil
}

func (cli *CommandLine) inspect(hash string) error {
	block := new(types.Block)

	if err := server.SendRequest(http.MethodGet, cli.endpoint("/blocks/"+url.PathEscape(hash)), nil, block); err != nil {
		return err
	}

	return renderBlocks([]*types.Block{block})
}

func (cli *CommandLine) records(party string) error {
	var blocks []*types.Block

	if err := server.SendRequest(http.MethodGet, cli.endpoint("/records?party="+url.QueryEscape(party)), nil, &blocks); err != nil {
		return err
	}

	if len(blocks) == 0 {
		pterm.Warning.Printfln("No records for %s", party)

		return nil
	}

	return renderBlocks(blocks)
}

func renderBlocks(blocks []*types.Block) error {
	data := pterm.TableData{
		{"#", "Sender", "Receiver", "Amount", "Creator", "Timestamp", "Nonce", "Prev. hash", "Hash"},
	}

	for _, block := range blocks {
		data = append(data, []string{
			strconv.Itoa(block.Index),
			block.Sender,
			block.Receiver,
			strconv.FormatFloat(block.Amount, 'f', -1, 64),
			strconv.Itoa(block.CreatorID),
			block.Timestamp,
			strconv.FormatUint(block.Nonce, 10),
			block.PrevHash,
			block.Hash,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// Execute parses args and runs the matching command.
func (cli *CommandLine) Execute(args []string) error {
	if len(args) < 1 {
		cli.printUsage()

		return ErrUsage
	}

	addBlockCmd := flag.NewFlagSet("addblock", flag.ContinueOnError)
	printChainCmd := flag.NewFlagSet("printchain", flag.ContinueOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	difficultyCmd := flag.NewFlagSet("difficulty", flag.ContinueOnError)
	inspectCmd := flag.NewFlagSet("inspect", flag.ContinueOnError)
	recordsCmd := flag.NewFlagSet("records", flag.ContinueOnError)

	addBlockSender := addBlockCmd.String("sender", "", "Sender of the transfer")
	addBlockReceiver := addBlockCmd.String("receiver", "", "Receiver of the transfer")
	addBlockAmount := addBlockCmd.Float64("amount", 0, "Amount to transfer")
	addBlockCreator := addBlockCmd.Int("creator", 0, "ID of the block creator")
	difficultySet := difficultyCmd.Int("set", -1, "New difficulty, omit to show the current one")
	inspectHash := inspectCmd.String("hash", "", "Hash of the block to show")
	recordsParty := recordsCmd.String("party", "", "Sender or receiver to look up")

	var err error

	switch args[0] {
	case "addblock":
		err = addBlockCmd.Parse(args[1:])
	case "printchain":
		err = printChainCmd.Parse(args[1:])
	case "validate":
		err = validateCmd.Parse(args[1:])
	case "difficulty":
		err = difficultyCmd.Parse(args[1:])
	case "inspect":
		err = inspectCmd.Parse(args[1:])
	case "records":
		err = recordsCmd.Parse(args[1:])
	default:
		cli.printUsage()

		return errors.Wrapf(ErrUsage, "unknown command %q", args[0])
	}

	if err != nil {
		return errors.Wrap(ErrUsage, err.Error())
	}

	switch {
	case addBlockCmd.Parsed():
		if *addBlockSender == "" || *addBlockReceiver == "" {
			addBlockCmd.Usage()

			return errors.Wrap(ErrUsage, "sender and receiver are required")
		}

		return cli.addBlock(*addBlockSender, *addBlockReceiver, *addBlockAmount, *addBlockCreator)
	case printChainCmd.Parsed():
		return cli.printChain()
	case validateCmd.Parsed():
		return cli.validate()
	case difficultyCmd.Parsed():
		return cli.difficulty(*difficultySet)
	case inspectCmd.Parsed():
		if *inspectHash == "" {
			inspectCmd.Usage()

			return errors.Wrap(ErrUsage, "hash is required")
		}

		return cli.inspect(*inspectHash)
	case recordsCmd.Parsed():
		if *recordsParty == "" {
			recordsCmd.Usage()

			return errors.Wrap(ErrUsage, "party is required")
		}

		return cli.records(*recordsParty)
	}

	return nil
}

// Run starts the CLI
func (cli *CommandLine) Run() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		if !errors.Is(err, ErrUsage) {
			pterm.Error.Println(err)
		}

		os.Exit(1)
	}
}
