// Package docs registers the OpenAPI document served under /docs. It is
// maintained by hand alongside the swag annotations on the HTTP handlers;
// update both when a route or DTO changes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/groups/{groupId}/activity": {
            "post": {
                "description": "Counts one message for a user. Counters reach storage on the next flush.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ranking"],
                "summary": "Record activity",
                "parameters": [
                    {"type": "string", "description": "Group chat ID", "name": "groupId", "in": "path", "required": true},
                    {"description": "Activity payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ranking.RecordActivityRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ranking.RecordActivityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}}
                }
            }
        },
        "/groups/{groupId}/leaderboard": {
            "get": {
                "description": "Returns the top users of a group by global, daily or weekly message count",
                "produces": ["application/json"],
                "tags": ["Ranking"],
                "summary": "Group leaderboard",
                "parameters": [
                    {"type": "string", "description": "Group chat ID", "name": "groupId", "in": "path", "required": true},
                    {"type": "string", "description": "Mode: global | daily | weekly", "name": "mode", "in": "query"},
                    {"type": "integer", "description": "Maximum entries (default 15)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ranking.LeaderboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}}
                }
            }
        },
        "/groups/{groupId}/users/{userId}/rank": {
            "get": {
                "description": "Returns a user's global rank and current counters in a group",
                "produces": ["application/json"],
                "tags": ["Ranking"],
                "summary": "User rank",
                "parameters": [
                    {"type": "string", "description": "Group chat ID", "name": "groupId", "in": "path", "required": true},
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ranking.UserRankResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ranking.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ranking.HealthResponse"}}
                }
            }
        },
        "/messages": {
            "post": {
                "description": "Counts group activity and answers ranking commands. The reply, if any, is returned for the bridge to deliver.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Ingest a chat message",
                "parameters": [
                    {"description": "Chat message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chat.MessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chat.HandleMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/chat.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/chat.ErrorResponse"}}
                }
            }
        },
        "/messages/bulk": {
            "post": {
                "description": "Processes messages in order and returns every reply produced",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Bulk ingest chat messages",
                "parameters": [
                    {"description": "Chat messages", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chat.BulkMessagesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chat.BulkMessagesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/chat.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/chat.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "chat.BulkMessagesRequest": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"$ref": "#/definitions/chat.MessageRequest"}}
            }
        },
        "chat.BulkMessagesResponse": {
            "type": "object",
            "properties": {
                "handled": {"type": "integer"},
                "recorded": {"type": "integer"},
                "replies": {"type": "array", "items": {"$ref": "#/definitions/chat.ReplyResponse"}}
            }
        },
        "chat.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_message"},
                "message": {"type": "string", "example": "chat_id is required"}
            }
        },
        "chat.HandleMessageResponse": {
            "type": "object",
            "properties": {
                "reply": {"$ref": "#/definitions/chat.ReplyResponse"},
                "status": {"type": "string", "example": "handled"}
            }
        },
        "chat.MessageRequest": {
            "description": "Inbound chat message. is_group defaults to the @g.us suffix check on chat_id.",
            "type": "object",
            "properties": {
                "chat_id": {"type": "string"},
                "from_self": {"type": "boolean"},
                "group_name": {"type": "string"},
                "id": {"type": "string"},
                "is_group": {"type": "boolean"},
                "sender_id": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "chat.ReplyResponse": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "string"},
                "mentions": {"type": "array", "items": {"type": "string"}},
                "quoted_id": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "ranking.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_mode"},
                "message": {"type": "string", "example": "mode must be one of global, daily, weekly"}
            }
        },
        "ranking.HealthResponse": {
            "type": "object",
            "properties": {
                "dirty_groups": {"type": "integer"},
                "groups": {"type": "integer"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "ranking.LeaderboardEntryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 42},
                "position": {"type": "integer", "example": 1},
                "user_id": {"type": "string", "example": "94771234567@s.whatsapp.net"}
            }
        },
        "ranking.LeaderboardResponse": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/ranking.LeaderboardEntryResponse"}},
                "group_id": {"type": "string"},
                "mode": {"type": "string", "example": "daily"},
                "total": {"type": "integer"}
            }
        },
        "ranking.RecordActivityRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"}
            }
        },
        "ranking.RecordActivityResponse": {
            "type": "object",
            "properties": {
                "daily": {"type": "integer"},
                "global": {"type": "integer"},
                "status": {"type": "string", "example": "accepted"},
                "weekly": {"type": "integer"}
            }
        },
        "ranking.UserRankResponse": {
            "type": "object",
            "properties": {
                "daily": {"type": "integer"},
                "global": {"type": "integer"},
                "group_id": {"type": "string"},
                "rank": {"type": "integer"},
                "total": {"type": "integer"},
                "user_id": {"type": "string"},
                "weekly": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo is the document registered with swag under the default instance name.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chat Ranking Service API",
	Description:      "Per-group chat activity counters with global, daily and weekly leaderboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
