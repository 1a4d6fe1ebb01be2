// Package docs registra el documento OpenAPI servido en /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Registrar cuenta", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me": {"get": {"tags": ["auth"], "summary": "Cuenta autenticada", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mis mascotas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["pets"], "summary": "Crear mascota", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/pets/{petID}": {
            "get": {"tags": ["pets"], "summary": "Obtener mascota", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["pets"], "summary": "Actualizar perfil", "responses": {"200": {"description": "OK"}}}
        },
        "/pets/{petID}/health": {"get": {"tags": ["health"], "summary": "Perfil de salud", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/vaccines": {"post": {"tags": ["health"], "summary": "Registrar vacuna", "responses": {"201": {"description": "Created"}}}},
        "/pets/{petID}/checkups": {"post": {"tags": ["health"], "summary": "Registrar control", "responses": {"201": {"description": "Created"}}}},
        "/pets/{petID}/allergies": {"post": {"tags": ["health"], "summary": "Registrar alergia", "responses": {"201": {"description": "Created"}}}},
        "/pets/{petID}/exercises": {"post": {"tags": ["health"], "summary": "Registrar ejercicio", "responses": {"201": {"description": "Created"}}}},
        "/pets/{petID}/feeding-plan": {"put": {"tags": ["health"], "summary": "Guardar plan de alimentación", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/habits": {
            "get": {"tags": ["habits"], "summary": "Check-ins recientes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["habits"], "summary": "Registrar check-in diario", "responses": {"201": {"description": "Created"}}}
        },
        "/pets/{petID}/health/trends": {"get": {"tags": ["habits"], "summary": "Tendencias de 7 días", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/habit-analytics": {"get": {"tags": ["habits"], "summary": "Racha y puntajes", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/feeding-reminders": {
            "get": {"tags": ["reminders"], "summary": "Listar recordatorios", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reminders"], "summary": "Crear recordatorio", "responses": {"201": {"description": "Created"}}}
        },
        "/pets/{petID}/feeding-reminders/{reminderID}": {"patch": {"tags": ["reminders"], "summary": "Actualizar recordatorio", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/posts": {
            "get": {"tags": ["community"], "summary": "Feed paginado", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["community"], "summary": "Publicar post", "responses": {"201": {"description": "Created"}}}
        },
        "/posts/{postID}/like": {"post": {"tags": ["community"], "summary": "Fijar like", "responses": {"200": {"description": "OK"}}}},
        "/posts/{postID}/comments": {"post": {"tags": ["community"], "summary": "Comentar", "responses": {"201": {"description": "Created"}}}},
        "/questions": {
            "get": {"tags": ["community"], "summary": "Listar preguntas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["community"], "summary": "Crear pregunta", "responses": {"201": {"description": "Created"}}}
        },
        "/questions/{questionID}/answers": {"post": {"tags": ["community"], "summary": "Responder", "responses": {"201": {"description": "Created"}}}},
        "/questions/{questionID}/accept": {"post": {"tags": ["community"], "summary": "Aceptar respuesta", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Care API",
	Description:      "Salud, hábitos diarios, recordatorios y comunidad para dueños de mascotas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
