package server

import "fmt"

// messageKey names an error message shown to API clients.
type messageKey string

const (
	msgCreate            messageKey = "create"
	msgList              messageKey = "list"
	msgGet               messageKey = "get"
	msgNotFound          messageKey = "not_found"
	msgUpdate            messageKey = "update"
	msgUpdateTitle       messageKey = "update_title"
	msgUpdateDescription messageKey = "update_description"
	msgUpdateCompleted   messageKey = "update_completed"
	msgDelete            messageKey = "delete"
	msgInvalidBody       messageKey = "invalid_body"
	msgInternal          messageKey = "internal"
)

type catalog map[messageKey]string

var catalogs = map[string]catalog{
	"ko": {
		msgCreate:            "Todo 생성 중 에러가 발생하였습니다.",
		msgList:              "Todos를 가져오는 중 에러가 발생하였습니다.",
		msgGet:               "Todo를 가져오는 중 에러가 발생하였습니다.",
		msgNotFound:          "Todo를 찾을 수 없습니다.",
		msgUpdate:            "Todo 업데이트 중 에러가 발생하였습니다.",
		msgUpdateTitle:       "Todo 제목 업데이트 중 에러가 발생하였습니다.",
		msgUpdateDescription: "Todo 설명 업데이트 중 에러가 발생하였습니다.",
		msgUpdateCompleted:   "Todo 완료 상태 업데이트 중 에러가 발생하였습니다.",
		msgDelete:            "Todo 삭제 중 에러가 발생하였습니다.",
		msgInvalidBody:       "요청 본문이 올바른 JSON이 아닙니다.",
		msgInternal:          "서버 내부 에러가 발생하였습니다.",
	},
	"en": {
		msgCreate:            "An error occurred while creating the todo.",
		msgList:              "An error occurred while fetching todos.",
		msgGet:               "An error occurred while fetching the todo.",
		msgNotFound:          "Todo not found.",
		msgUpdate:            "An error occurred while updating the todo.",
		msgUpdateTitle:       "An error occurred while updating the todo title.",
		msgUpdateDescription: "An error occurred while updating the todo description.",
		msgUpdateCompleted:   "An error occurred while updating the todo completed state.",
		msgDelete:            "An error occurred while deleting the todo.",
		msgInvalidBody:       "The request body is not valid JSON.",
		msgInternal:          "Internal server error.",
	},
}

// catalogFor returns the messages for a display language.
func catalogFor(language string) (catalog, error) {
	c, ok := catalogs[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}
	return c, nil
}
