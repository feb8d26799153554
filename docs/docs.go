// Package docs swagger 文档（swag init 生成后提交；路由注释见 internal/api/handler）
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
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "登录，签发 access/refresh token",
                "parameters": [
                    {"description": "登录信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/token.Pair"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/auth/reissue": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "续期 token（Refresh 头或请求体）",
                "parameters": [
                    {"type": "string", "description": "refresh token", "name": "Refresh", "in": "header"},
                    {"description": "refresh token", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.ReissueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/token.Pair"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["认证"],
                "summary": "退出登录，access token 进入黑名单",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["会员"],
                "summary": "会员注册",
                "parameters": [
                    {"description": "注册信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MemberPost"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members/mypage": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["会员"],
                "summary": "查询当前登录会员",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MemberResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members/{memberId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["会员"],
                "summary": "查询会员",
                "parameters": [{"type": "integer", "description": "会员ID", "name": "memberId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MemberResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["会员"],
                "summary": "修改会员资料（仅本人）",
                "parameters": [
                    {"type": "integer", "description": "会员ID", "name": "memberId", "in": "path", "required": true},
                    {"description": "资料", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MemberPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MemberResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["会员"],
                "summary": "删除会员（仅本人）",
                "parameters": [{"type": "integer", "description": "会员ID", "name": "memberId", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members/follow/{memberId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "切换关注状态",
                "parameters": [{"type": "integer", "description": "被关注会员ID", "name": "memberId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FollowResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members/following": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "查询关注列表（游标分页）",
                "parameters": [
                    {"type": "integer", "description": "上一页最后一条的 followId", "name": "cursorId", "in": "query"},
                    {"type": "integer", "default": 10, "description": "每页数量", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Slice-model_FollowSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/members/follower": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "查询粉丝列表（游标分页）",
                "parameters": [
                    {"type": "integer", "description": "上一页最后一条的 followId", "name": "cursorId", "in": "query"},
                    {"type": "integer", "default": 10, "description": "每页数量", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Slice-model_FollowSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        }
    },
    "definitions": {
        "dto.FollowResponse": {
            "type": "object",
            "properties": {"memberId": {"type": "integer"}, "following": {"type": "boolean"}}
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "userName"],
            "properties": {"userName": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.ReissueRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "dto.MemberPatch": {
            "type": "object",
            "required": ["nickname"],
            "properties": {
                "nickname": {"type": "string", "maxLength": 50},
                "introduction": {"type": "string", "maxLength": 500},
                "image": {"type": "string", "maxLength": 512}
            }
        },
        "dto.MemberPost": {
            "type": "object",
            "required": ["email", "nickname", "password", "userName"],
            "properties": {
                "userName": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"},
                "nickname": {"type": "string", "maxLength": 50},
                "email": {"type": "string"},
                "introduction": {"type": "string", "maxLength": 500},
                "image": {"type": "string", "maxLength": 512}
            }
        },
        "dto.MemberResponse": {
            "type": "object",
            "properties": {
                "memberId": {"type": "integer"},
                "userName": {"type": "string"},
                "nickname": {"type": "string"},
                "email": {"type": "string"},
                "introduction": {"type": "string"},
                "image": {"type": "string"},
                "role": {"type": "string"},
                "followerCount": {"type": "integer"},
                "followingCount": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "model.FollowSummary": {
            "type": "object",
            "properties": {
                "followId": {"type": "integer"},
                "memberId": {"type": "integer"},
                "userName": {"type": "string"},
                "nickname": {"type": "string"},
                "image": {"type": "string"}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {"errorCode": {"type": "string"}, "message": {"type": "string"}}
        },
        "response.Slice-model_FollowSummary": {
            "type": "object",
            "properties": {
                "content": {"type": "array", "items": {"$ref": "#/definitions/model.FollowSummary"}},
                "hasNext": {"type": "boolean"},
                "size": {"type": "integer"}
            }
        },
        "token.Pair": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Member Graph API",
	Description:      "会员与关注关系服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
