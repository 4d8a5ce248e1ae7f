package httpclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/structrest/errors"
	"github.com/kbukum/structrest/httpclient"
	"github.com/kbukum/structrest/jsonrpc"
	"github.com/kbukum/structrest/logger"
	"github.com/kbukum/structrest/rest"
	"github.com/kbukum/structrest/testutil"
)

type todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type todoArgs struct {
	ID int `json:"id"`
}

type listArgs struct {
	Done  *bool `json:"done"`
	Limit int   `json:"limit" default:"10"`
}

type createArgs struct {
	Body todo `json:"body"`
}

func todoServer(t *testing.T) *testutil.Server {
	return testutil.T(t).Server(func(r *gin.Engine) {
		r.GET("/api/todos", func(c *gin.Context) {
			if c.Query("limit") != "10" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit"})
				return
			}
			if _, ok := c.GetQuery("done"); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "done must be omitted"})
				return
			}
			c.JSON(http.StatusOK, []todo{{ID: 1, Title: "write"}})
		})
		r.GET("/api/todos/:id", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such todo"})
		})
		r.POST("/api/todos", func(c *gin.Context) {
			var in todo
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			in.ID = 2
			c.JSON(http.StatusCreated, in)
		})
		r.POST("/rpc", func(c *gin.Context) {
			var req map[string]any
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"jsonrpc": "2.0", "id": req["id"], "result": "pong"})
		})
	})
}

func TestRESTOverHTTP(t *testing.T) {
	srv := todoServer(t)
	adapter, err := httpclient.New(httpclient.Config{BaseURL: srv.URL() + "/api/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client := rest.NewClient(adapter, rest.WithLogger(logger.NewNop()))
	ctx := context.Background()

	list := rest.MustBind(client, rest.MustGet[listArgs, []todo]("todos"))
	todos, err := list.Call(ctx, listArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "write" {
		t.Errorf("todos = %+v", todos)
	}

	get := rest.MustBind(client, rest.MustGet[todoArgs, todo]("todos/{id}"))
	if _, err := get.Call(ctx, todoArgs{ID: 9}); !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	create := rest.MustBind(client, rest.MustPost[createArgs, todo]("todos"))
	created, err := create.Call(ctx, createArgs{Body: todo{Title: "ship"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 2 || created.Title != "ship" {
		t.Errorf("created = %+v", created)
	}
}

func TestJSONRPCOverHTTP(t *testing.T) {
	srv := todoServer(t)
	adapter := httpclient.MustNew(httpclient.Config{BaseURL: srv.URL()})
	client := jsonrpc.NewClient(adapter, jsonrpc.WithRESTOptions(rest.WithLogger(logger.NewNop())))

	ping := jsonrpc.MustBind(client, jsonrpc.MustDeclare[todoArgs, string]("ping", jsonrpc.Path("rpc")))
	got, err := ping.Call(context.Background(), todoArgs{ID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pong" {
		t.Errorf("got %q", got)
	}
}

func TestAsyncOverHTTP(t *testing.T) {
	srv := todoServer(t)
	client := rest.NewAsyncClient(httpclient.MustNew(httpclient.Config{BaseURL: srv.URL() + "/api/"}),
		rest.WithLogger(logger.NewNop()))
	list := rest.MustBindAsync(client, rest.MustGet[listArgs, []todo]("todos", rest.Async()))

	futures := make([]*rest.Future[[]todo], 4)
	for i := range futures {
		futures[i] = list.Call(context.Background(), listArgs{})
	}
	for _, f := range futures {
		todos, err := f.Await(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(todos) != 1 {
			t.Errorf("todos = %+v", todos)
		}
	}
	if hits := len(srv.Hits()); hits != 4 {
		t.Errorf("server saw %d requests", hits)
	}
}
