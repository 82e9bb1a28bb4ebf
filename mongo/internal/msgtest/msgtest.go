package msgtest

import (
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
)

// CreateCommandReply builds a reply carrying a single marshaled
// command response document.
func CreateCommandReply(cmd interface{}) *msg.Reply {
	doc, err := bson.Marshal(cmd)
	if err != nil {
		panic(err)
	}

	return &msg.Reply{
		NumberReturned: 1,
		DocumentsBytes: doc,
	}
}

// CreateCommandErrorReply builds a reply for a failed command.
func CreateCommandErrorReply(code int32, errmsg, codeName string) *msg.Reply {
	response := bson.D{
		{Name: "ok", Value: 0},
		{Name: "errmsg", Value: errmsg},
	}
	if code != 0 {
		response = append(response, bson.DocElem{Name: "code", Value: code})
	}
	if codeName != "" {
		response = append(response, bson.DocElem{Name: "codeName", Value: codeName})
	}

	return CreateCommandReply(response)
}
