package domain

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the requested id or login.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound is returned when no account matches the requested id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLoginConflict indicates the requested login is already taken.
	ErrLoginConflict = errors.New("login already taken")

	// ErrInvalidLogin indicates an empty login.
	ErrInvalidLogin = errors.New("login must not be empty")

	// ErrInvalidAmount indicates a non-positive money amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds occurs when the account balance cannot cover a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceOverflow indicates a credit that would exceed the largest
	// representable balance.
	ErrBalanceOverflow = errors.New("balance would exceed the maximum amount")

	// ErrLastAccount is returned when closing the only account a user owns.
	ErrLastAccount = errors.New("cannot close the only account of a user")

	// ErrSameAccount indicates a transfer whose source and destination coincide.
	ErrSameAccount = errors.New("source and destination accounts are the same")
)
