package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// GraphQLHandler serves GraphQL operations over HTTP.
type GraphQLHandler struct {
	schema *graphql.Schema
	log    logrus.FieldLogger
}

// NewGraphQLHandler creates a new GraphQLHandler.
func NewGraphQLHandler(schema *graphql.Schema, log logrus.FieldLogger) *GraphQLHandler {
	return &GraphQLHandler{
		schema: schema,
		log:    log,
	}
}

// RegisterRoutes registers the GraphQL endpoint with the Fiber router.
func (h *GraphQLHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/graphql", h.HandlePost)
	router.Get("/graphql", h.HandleGet)
}

// graphQLRequest is the standard GraphQL-over-HTTP request body.
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HandlePost executes an operation sent as a JSON body.
func (h *GraphQLHandler) HandlePost(c *fiber.Ctx) error {
	var req graphQLRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.WithError(err).Debug("error parsing GraphQL request body")
		return badRequest(c, "Invalid request body")
	}
	return h.execute(c, req)
}

// HandleGet executes a query sent in the query string. Mutations are refused
// with 405 and must be sent with POST.
func (h *GraphQLHandler) HandleGet(c *fiber.Ctx) error {
	req := graphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return badRequest(c, "Invalid variables")
		}
	}
	if op := operationType(req.Query, req.OperationName); op != "" && op != ast.Query {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"errors": []fiber.Map{{"message": "GET supports only query operations"}},
		})
	}
	return h.execute(c, req)
}

// execute runs the operation. Resolver failures are reported in the errors
// array of a 200 response.
func (h *GraphQLHandler) execute(c *fiber.Ctx, req graphQLRequest) error {
	if req.Query == "" {
		return badRequest(c, "Must provide query string")
	}

	resp := h.schema.Exec(c.UserContext(), req.Query, req.OperationName, req.Variables)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// operationType reports the type of the operation that operationName selects
// in query. It is empty when the document does not parse or the operation
// cannot be chosen; the executor reports those cases itself.
func operationType(query, operationName string) ast.Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return ""
	}
	op := doc.Operations.ForName(operationName)
	if op == nil {
		return ""
	}
	return op.Operation
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": []fiber.Map{{"message": message}},
	})
}
