package domain

import "time"

// User is a bank customer. AccountIDs lists the accounts the user currently owns.
type User struct {
	ID         int64     `json:"id"`
	Login      string    `json:"login"`
	AccountIDs []int64   `json:"account_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// Account is a balance-holding record owned by exactly one user.
// Balance is expressed in whole currency units and never drops below zero.
type Account struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
