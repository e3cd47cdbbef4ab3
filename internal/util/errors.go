package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAlreadyInOrg         = errors.New("user already belongs to an organization")
	ErrOrgChangeForbidden   = errors.New("you can't change your organization")
	ErrOrgMismatch          = errors.New("user and group must refer to the same organization")
	ErrTestNotFound         = errors.New("test not found")
	ErrTestNotAccessible    = errors.New("test not accessible")
	ErrCompletionNotFound   = errors.New("completion not found")
	ErrUnknownQuestionType  = errors.New("question type is not defined")
	ErrVariantNotFound      = errors.New("picked variant is not defined for this question")
	ErrMissingPickedVariant = errors.New("picked variant is required for this question type")
)
