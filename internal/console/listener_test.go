package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/config"
	"github.com/corebank/corebank/internal/core"
	"github.com/corebank/corebank/internal/logging"
)

func run(t *testing.T, lines ...string) (string, *core.Core) {
	t.Helper()
	bank := core.New(config.Config{DefaultAccountAmount: 1000, TransferCommission: 0.1}, nil, nil, logging.Discard())
	var out bytes.Buffer
	l := NewListener(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, bank, logging.Discard())
	require.NoError(t, l.Run(context.Background()))
	return out.String(), bank
}

func TestListenerUserLifecycle(t *testing.T) {
	out, bank := run(t,
		"USER_CREATE", "ann",
		"USER_CREATE", "bob",
		"ACCOUNT_CREATE", "1",
		"ACCOUNT_TRANSFER", "1", "2", "100",
		"ACCOUNT_CLOSE", "3",
		"SHOW_ALL_USERS",
	)

	assert.Contains(t, out, "Console listener started")
	assert.Contains(t, out, "User created: User{id=1, login=ann, accountIds=[1]}")
	assert.Contains(t, out, "New account created with id=3 for user: ann")
	assert.Contains(t, out, "Successfully transferred 100 from account id=1 to account id=2 (credited 90)")
	assert.Contains(t, out, "Account successfully closed with id=3")
	assert.Contains(t, out, "User{id=1, login=ann, accountIds=[1]}")
	assert.Contains(t, out, "User{id=2, login=bob, accountIds=[2]}")
	assert.True(t, strings.HasSuffix(out, "Console listener end listen\n"))

	ctx := context.Background()
	a1, err := bank.Accounts.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1900), a1.Balance)
	b1, err := bank.Accounts.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1090), b1.Balance)
}

func TestListenerDepositAndWithdraw(t *testing.T) {
	out, bank := run(t,
		"USER_CREATE", "ann",
		"ACCOUNT_DEPOSIT", "1", "250",
		"ACCOUNT_WITHDRAW", "1", "50",
	)
	assert.Contains(t, out, "Amount 250 deposited to account id=1")
	assert.Contains(t, out, "Amount 50 withdrawn from account id=1")

	account, err := bank.Accounts.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), account.Balance)
}

func TestListenerReportsErrorsAndKeepsGoing(t *testing.T) {
	out, _ := run(t,
		"NOPE",
		"USER_CREATE", "ann",
		"USER_CREATE", "ann",
		"ACCOUNT_WITHDRAW", "1", "5000",
		"ACCOUNT_CLOSE", "1",
		"ACCOUNT_DEPOSIT", "abc",
		"ACCOUNT_CREATE", "42",
		"SHOW_ALL_USERS",
	)

	assert.Contains(t, out, "No such operation type")
	assert.Contains(t, out, "Error execute command USER_CREATE: error=")
	assert.Contains(t, out, "login already taken")
	assert.Contains(t, out, "Error execute command ACCOUNT_WITHDRAW: error=")
	assert.Contains(t, out, "insufficient funds")
	assert.Contains(t, out, "Error execute command ACCOUNT_CLOSE: error=")
	assert.Contains(t, out, "cannot close the only account of a user")
	assert.Contains(t, out, `Error execute command ACCOUNT_DEPOSIT: error="abc" is not a whole number`)
	assert.Contains(t, out, "Error execute command ACCOUNT_CREATE: error=user not found")
	assert.Contains(t, out, "User{id=1, login=ann, accountIds=[1]}")
}

func TestListenerStopsOnTruncatedInput(t *testing.T) {
	out, _ := run(t, "ACCOUNT_TRANSFER", "1")
	assert.NotContains(t, out, "Error execute command")
	assert.True(t, strings.HasSuffix(out, "Console listener end listen\n"))
}

func TestListenerHonoursCancelledContext(t *testing.T) {
	bank := core.New(config.Config{DefaultAccountAmount: 1000}, nil, nil, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewListener(strings.NewReader("SHOW_ALL_USERS\n"), &out, bank, logging.Discard()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
