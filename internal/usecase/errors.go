package usecase

import (
	"errors"
	"fmt"
)

// エラーの種別。HTTPへの変換はhandler側が行う
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindInvalidState ErrorKind = "invalid_state"
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindInternal     ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// 参照先（cart/product/customerなど）が無い
func NewNotFound(resource string) error {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

// 操作対象の状態が不正（空カートのcheckoutなど）
func NewInvalidState(message string) error {
	return &AppError{Kind: KindInvalidState, Message: message}
}

// 入力が不正
func NewValidation(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewUnauthorized() error {
	return &AppError{Kind: KindUnauthorized, Message: "unauthorized"}
}

func NewForbidden(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

// インフラ起因。呼び出し側には詳細を見せない
func NewInternal(message string) error {
	return &AppError{Kind: KindInternal, Message: message}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
