package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryInUse        = errors.New("category is used by expenses or subscriptions")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrEmptyUpdate          = errors.New("no fields to update")
)
