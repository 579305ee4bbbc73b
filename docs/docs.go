// Package docs registers the swagger document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/api/v1/auth/login": {
            "post": {"tags": ["认证"], "summary": "用户登录", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/users/{user_id}/feed": {
            "get": {"tags": ["动态"], "summary": "获取动态流", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["动态"], "summary": "发布状态更新", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/feeditems/{feeditem_id}": {
            "get": {"tags": ["动态"], "summary": "获取单条动态", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/feeditems/{feeditem_id}/comments": {
            "post": {"tags": ["评论"], "summary": "发表评论", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/feeditems/{feeditem_id}/likelist/{user_id}": {
            "put": {"tags": ["点赞"], "summary": "点赞动态", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}, {"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["点赞"], "summary": "取消点赞动态", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}, {"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/feeditems/{feeditem_id}/comments/{comment_idx}/likelist/{user_id}": {
            "put": {"tags": ["点赞"], "summary": "点赞评论", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}, {"type": "integer", "name": "comment_idx", "in": "path", "required": true}, {"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["点赞"], "summary": "取消点赞评论", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "feeditem_id", "in": "path", "required": true}, {"type": "integer", "name": "comment_idx", "in": "path", "required": true}, {"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "feedmock API",
	Description:      "Mock social feed backend: feeds, status updates, comments and likes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
