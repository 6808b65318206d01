// Package docs holds the generated OpenAPI description served at /docs.
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
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get the active identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "404": {"description": "No active identity"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Log in as one of the two participants",
                "parameters": [
                    {"description": "Identity to activate", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "400": {"description": "Unknown identity"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "List both participants",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["state"],
                "summary": "Full current snapshot of all collections",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/goals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "List goals for the active identity",
                "parameters": [
                    {"type": "string", "description": "Set to 'other' to read the partner's goals", "name": "user", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Goal"}}},
                    "409": {"description": "Login required"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["goals"],
                "summary": "Create a goal",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGoalRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/goals/{id}": {
            "delete": {
                "tags": ["goals"],
                "summary": "Delete a goal and its checklist",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/goals/{id}/progress": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["goals"],
                "summary": "Move a goal's progress by a delta, clamped to its target",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgressRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/goals/{id}/subgoals": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["goals"],
                "summary": "Add a checklist step under a goal",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubgoalRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/goals/{id}/subgoals/{subId}": {
            "put": {
                "tags": ["goals"],
                "summary": "Toggle a checklist step",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "subId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            },
            "delete": {
                "tags": ["goals"],
                "summary": "Remove a checklist step",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "subId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/todos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "List the active identity's tasks with a completed count",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Login required"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["todos"],
                "summary": "Add a task",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTextRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/todos/{id}": {
            "put": {
                "tags": ["todos"],
                "summary": "Toggle a task's completed flag",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            },
            "delete": {
                "tags": ["todos"],
                "summary": "Delete a task",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Read the shared message thread, oldest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Message"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["messages"],
                "summary": "Append a message to the shared thread",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTextRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/rewards": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rewards"],
                "summary": "Read the shared reward ledger",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Reward"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["rewards"],
                "summary": "Offer a reward to the other participant",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTextRequest"}}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/rewards/{id}": {
            "put": {
                "tags": ["rewards"],
                "summary": "Toggle a reward's claimed flag",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Accepted"},
                    "409": {"description": "Login required"}
                }
            }
        },
        "/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["state"],
                "summary": "Per-participant goal progress overview",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["identity"],
            "properties": {
                "identity": {"type": "string", "enum": ["user1", "user2"]}
            }
        },
        "SessionResponse": {
            "type": "object",
            "properties": {
                "identity": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "CreateGoalRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "target": {"type": "integer"}
            }
        },
        "ProgressRequest": {
            "type": "object",
            "properties": {
                "delta": {"type": "integer"}
            }
        },
        "CreateSubgoalRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "CreateTextRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "Goal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "target": {"type": "integer"},
                "current": {"type": "integer"},
                "subgoals": {"type": "array", "items": {"$ref": "#/definitions/Subgoal"}},
                "owner": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "Subgoal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "description": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "from": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "Reward": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "claimed": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Penguin API",
	Description:      "Shared accountability tracker for two participants",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
