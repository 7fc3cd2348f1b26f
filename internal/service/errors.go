package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrContentNotFound = errors.New("内容不存在")
	ErrActionInvalid   = errors.New("不支持的交互类型")
	ErrStorage         = errors.New("存储服务暂时不可用")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrContentNotFound: NotFound,
	ErrActionInvalid:   BadRequest,
	ErrStorage:         ServiceUnavailable,
	UnExpectedError:    InternalServerError,
}
