package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Academix API", "description": "Course portal for students and faculty: courses, materials, assignments, queries and feedback", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "paths": {
        "/auth/login/{entry}": {
            "post": {"tags": ["Authentication"], "summary": "Authenticate through the student or faculty entry point", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"name": "entry", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}]}
        },
        "/auth/refresh": {
            "post": {"tags": ["Authentication"], "summary": "Refresh access token", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}]}
        },
        "/auth/logout": {
            "post": {"tags": ["Authentication"], "summary": "Revoke a refresh token", "produces": ["application/json"], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}]}
        },
        "/auth/change-password": {
            "post": {"tags": ["Authentication"], "summary": "Change password", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}]}
        },
        "/auth/register": {
            "post": {"tags": ["Registration"], "summary": "Start student registration", "produces": ["application/json"], "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}]}
        },
        "/auth/register/verify": {
            "post": {"tags": ["Registration"], "summary": "Confirm registration with the emailed code", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Wrong code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "410": {"description": "Registration expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyRegistrationRequest"}}]}
        },
        "/me": {
            "get": {"tags": ["Profile"], "summary": "Current account with its role profile", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/profile": {
            "get": {"tags": ["Profile"], "summary": "Student profile", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "patch": {"tags": ["Profile"], "summary": "Update student profile", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}]}
        },
        "/courses": {
            "post": {"tags": ["Courses"], "summary": "Create a course", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate course code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}]}
        },
        "/courses/mine": {
            "get": {"tags": ["Courses"], "summary": "Courses the caller is enrolled in or teaches", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/courses/available": {
            "get": {"tags": ["Courses"], "summary": "Courses the caller is not associated with", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/courses/{code}": {
            "get": {"tags": ["Courses"], "summary": "Course detail", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "patch": {"tags": ["Courses"], "summary": "Update a course", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}]}
        },
        "/courses/{code}/enroll": {
            "post": {"tags": ["Courses"], "summary": "Enroll in a course", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/students": {
            "get": {"tags": ["Courses"], "summary": "Enrolled students", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/students/{studentID}": {
            "get": {"tags": ["Profile"], "summary": "View a roster member", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "studentID", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/students/{studentID}/submissions": {
            "get": {"tags": ["Submissions"], "summary": "One student's submissions", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "studentID", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/materials": {
            "get": {"tags": ["Content"], "summary": "Course materials", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "post": {"tags": ["Content"], "summary": "Add a material", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMaterialRequest"}}]}
        },
        "/courses/{code}/materials/{id}/file": {
            "put": {"tags": ["Content"], "summary": "Attach a file to a material", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/materials/{id}/download-url": {
            "get": {"tags": ["Content"], "summary": "Signed download link", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/downloads/{token}": {
            "get": {"tags": ["Content"], "summary": "Stream a file through a signed link", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/announcements": {
            "get": {"tags": ["Content"], "summary": "Course announcements", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "post": {"tags": ["Content"], "summary": "Post an announcement", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAnnouncementRequest"}}]}
        },
        "/courses/{code}/announcements/{id}": {
            "delete": {"tags": ["Content"], "summary": "Delete an announcement", "produces": ["application/json"], "responses": {"303": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/assignments": {
            "get": {"tags": ["Assignments"], "summary": "Course assignments", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "post": {"tags": ["Assignments"], "summary": "Create an assignment", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate assignment name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}]}
        },
        "/courses/{code}/assignments/{name}": {
            "patch": {"tags": ["Assignments"], "summary": "Update an assignment", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAssignmentRequest"}}]},
            "delete": {"tags": ["Assignments"], "summary": "Delete an assignment and its submissions", "produces": ["application/json"], "responses": {"303": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/assignments/{name}/submission": {
            "post": {"tags": ["Submissions"], "summary": "Turn in work", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitWorkRequest"}}]},
            "put": {"tags": ["Submissions"], "summary": "Replace turned-in work", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitWorkRequest"}}]}
        },
        "/courses/{code}/assignments/{name}/submissions": {
            "get": {"tags": ["Submissions"], "summary": "Submissions for an assignment", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/assignments/{name}/submissions/{id}/grade": {
            "post": {"tags": ["Submissions"], "summary": "Grade a submission", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Grade out of range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "name", "in": "path", "required": true, "type": "string"}, {"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeSubmissionRequest"}}]}
        },
        "/courses/{code}/gradebook": {
            "get": {"tags": ["Gradebook"], "summary": "Course gradebook", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/gradebook/export": {
            "get": {"tags": ["Gradebook"], "summary": "Download the gradebook as csv or pdf", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]}
        },
        "/courses/{code}/queries": {
            "get": {"tags": ["Queries"], "summary": "Course queries", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "post": {"tags": ["Queries"], "summary": "Ask the instructor a question", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AskQueryRequest"}}]}
        },
        "/courses/{code}/queries/{id}/reply": {
            "put": {"tags": ["Queries"], "summary": "Answer a query", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplyQueryRequest"}}]}
        },
        "/courses/{code}/feedback": {
            "get": {"tags": ["Feedback"], "summary": "Course feedback or the caller's feedback status", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}]},
            "post": {"tags": ["Feedback"], "summary": "Leave course feedback once", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Feedback already given", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}]}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "RefreshTokenRequest": {"type": "object", "properties": {"refresh_token": {"type": "string"}}},
        "ChangePasswordRequest": {"type": "object", "properties": {"old_password": {"type": "string"}, "new_password": {"type": "string"}}},
        "RegisterStudentRequest": {"type": "object", "properties": {"first_name": {"type": "string"}, "middle_name": {"type": "string"}, "last_name": {"type": "string"}, "batch": {"type": "integer"}, "branch": {"type": "string"}, "program": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "VerifyRegistrationRequest": {"type": "object", "properties": {"token": {"type": "string"}, "code": {"type": "string"}}},
        "UpdateProfileRequest": {"type": "object", "properties": {"first_name": {"type": "string"}, "middle_name": {"type": "string"}, "last_name": {"type": "string"}, "batch": {"type": "integer"}, "branch": {"type": "string"}, "program": {"type": "string"}}},
        "CreateCourseRequest": {"type": "object", "properties": {"name": {"type": "string"}, "course_code": {"type": "string"}, "description": {"type": "string"}}},
        "UpdateCourseRequest": {"type": "object", "properties": {"name": {"type": "string"}, "course_code": {"type": "string"}, "description": {"type": "string"}}},
        "CreateMaterialRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}}},
        "CreateAnnouncementRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}}},
        "CreateAssignmentRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "due_at": {"type": "string"}, "max_grade": {"type": "number"}, "attachment_ref": {"type": "string"}}},
        "UpdateAssignmentRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "due_at": {"type": "string"}, "max_grade": {"type": "number"}, "attachment_ref": {"type": "string"}}},
        "SubmitWorkRequest": {"type": "object", "properties": {"work": {"type": "string"}}},
        "GradeSubmissionRequest": {"type": "object", "properties": {"grade": {"type": "number"}, "feedback": {"type": "string"}}},
        "AskQueryRequest": {"type": "object", "properties": {"question": {"type": "string"}}},
        "ReplyQueryRequest": {"type": "object", "properties": {"reply": {"type": "string"}}},
        "SubmitFeedbackRequest": {"type": "object", "properties": {"comment": {"type": "string"}}},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}},
        "Notice": {"type": "object", "properties": {"level": {"type": "string"}, "message": {"type": "string"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "notices": {"type": "array", "items": {"$ref": "#/definitions/Notice"}}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
