// Package console drives the bank core from a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/corebank/corebank/internal/core"
	"github.com/corebank/corebank/internal/domain"
)

// Operation names a console command.
type Operation string

const (
	OpUserCreate      Operation = "USER_CREATE"
	OpShowAllUsers    Operation = "SHOW_ALL_USERS"
	OpAccountCreate   Operation = "ACCOUNT_CREATE"
	OpAccountClose    Operation = "ACCOUNT_CLOSE"
	OpAccountDeposit  Operation = "ACCOUNT_DEPOSIT"
	OpAccountWithdraw Operation = "ACCOUNT_WITHDRAW"
	OpAccountTransfer Operation = "ACCOUNT_TRANSFER"
)

type processor func(ctx context.Context) error

// Listener reads operation names, prompts for their arguments and prints
// the outcome. It stops at end of input.
type Listener struct {
	in         *bufio.Scanner
	out        io.Writer
	bank       *core.Core
	logger     *slog.Logger
	order      []Operation
	processors map[Operation]processor
}

// NewListener builds a listener reading from in and writing to out.
func NewListener(in io.Reader, out io.Writer, bank *core.Core, logger *slog.Logger) *Listener {
	l := &Listener{
		in:     bufio.NewScanner(in),
		out:    out,
		bank:   bank,
		logger: logger,
	}
	l.order = []Operation{
		OpUserCreate,
		OpShowAllUsers,
		OpAccountCreate,
		OpAccountClose,
		OpAccountDeposit,
		OpAccountWithdraw,
		OpAccountTransfer,
	}
	l.processors = map[Operation]processor{
		OpUserCreate:      l.createUser,
		OpShowAllUsers:    l.showAllUsers,
		OpAccountCreate:   l.createAccount,
		OpAccountClose:    l.closeAccount,
		OpAccountDeposit:  l.deposit,
		OpAccountWithdraw: l.withdraw,
		OpAccountTransfer: l.transfer,
	}
	return l
}

// Run processes operations until the input is exhausted or ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	l.println("Console listener started")
	defer l.println("Console listener end listen")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.println("\nPlease type next operation:")
		for _, op := range l.order {
			l.println(string(op))
		}
		l.println("")

		line, err := l.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		op := Operation(strings.TrimSpace(line))
		process, ok := l.processors[op]
		if !ok {
			l.println("No such operation type")
			continue
		}

		err = process(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			l.logger.Warn("console.operation failed", slog.String("operation", string(op)), slog.Any("error", err))
			fmt.Fprintf(l.out, "Error execute command %s: error=%s\n", op, err)
		}
	}
}

func (l *Listener) createUser(ctx context.Context) error {
	login, err := l.prompt("Enter login for new user:")
	if err != nil {
		return err
	}
	user, err := l.bank.Users.Create(ctx, login)
	if err != nil {
		return err
	}
	l.println("User created: " + formatUser(user))
	return nil
}

func (l *Listener) showAllUsers(ctx context.Context) error {
	users, err := l.bank.Users.List(ctx)
	if err != nil {
		return err
	}
	l.println("List of all users:")
	for _, user := range users {
		l.println(formatUser(user))
	}
	return nil
}

func (l *Listener) createAccount(ctx context.Context) error {
	userID, err := l.promptID("Enter the user id for which to create an account:")
	if err != nil {
		return err
	}
	user, err := l.bank.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	account, err := l.bank.Accounts.Open(ctx, user.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(l.out, "New account created with id=%d for user: %s\n", account.ID, user.Login)
	return nil
}

func (l *Listener) closeAccount(ctx context.Context) error {
	id, err := l.promptID("Enter account id to close:")
	if err != nil {
		return err
	}
	closed, err := l.bank.Accounts.Close(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Account successfully closed with id=%d\n", closed.ID)
	return nil
}

func (l *Listener) deposit(ctx context.Context) error {
	id, err := l.promptID("Enter account id:")
	if err != nil {
		return err
	}
	amount, err := l.promptID("Enter amount to deposit:")
	if err != nil {
		return err
	}
	if _, err := l.bank.Accounts.Deposit(ctx, id, amount); err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Amount %d deposited to account id=%d\n", amount, id)
	return nil
}

func (l *Listener) withdraw(ctx context.Context) error {
	id, err := l.promptID("Enter account id to withdraw from:")
	if err != nil {
		return err
	}
	amount, err := l.promptID("Enter amount to withdraw:")
	if err != nil {
		return err
	}
	if _, err := l.bank.Accounts.Withdraw(ctx, id, amount); err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Amount %d withdrawn from account id=%d\n", amount, id)
	return nil
}

func (l *Listener) transfer(ctx context.Context) error {
	fromID, err := l.promptID("Enter source account id:")
	if err != nil {
		return err
	}
	toID, err := l.promptID("Enter destination account id:")
	if err != nil {
		return err
	}
	amount, err := l.promptID("Enter amount to transfer:")
	if err != nil {
		return err
	}
	res, err := l.bank.Accounts.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(l.out, "Successfully transferred %d from account id=%d to account id=%d (credited %d)\n",
		res.Amount, res.FromAccountID, res.ToAccountID, res.Credited)
	return nil
}

func (l *Listener) prompt(message string) (string, error) {
	l.println(message)
	line, err := l.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptID reads a whole number. Range checks belong to the services.
func (l *Listener) promptID(message string) (int64, error) {
	line, err := l.prompt(message)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", line)
	}
	return n, nil
}

func (l *Listener) readLine() (string, error) {
	if l.in.Scan() {
		return l.in.Text(), nil
	}
	if err := l.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (l *Listener) println(s string) {
	fmt.Fprintln(l.out, s)
}

func formatUser(user domain.User) string {
	return fmt.Sprintf("User{id=%d, login=%s, accountIds=%v}", user.ID, user.Login, user.AccountIDs)
}
