package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/agrisight/agrikit/api"
	"github.com/agrisight/agrikit/session"
)

func ExampleClient_Do() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"f-1","crop":"barley"}}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(api.Config{
		BaseURL: srv.URL,
		Service: "field-ops",
	})
	if err != nil {
		panic(err)
	}

	env := client.Do(context.Background(), api.Request{Endpoint: "/v1/fields/f-1"})
	fmt.Println(env.Success)
	fmt.Println(string(env.Data))
	// Output:
	// true
	// {"id":"f-1","crop":"barley"}
}

func ExampleCall() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"f-1","crop":"barley"}}`))
	}))
	defer srv.Close()

	client, _ := api.NewClient(api.Config{BaseURL: srv.URL, Service: "field-ops"})

	type Field struct {
		ID   string `json:"id"`
		Crop string `json:"crop"`
	}

	field, err := api.Call[Field](context.Background(), client, api.Request{
		Endpoint: "/v1/fields/f-1",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(field.Crop)
	// Output:
	// barley
}

func ExampleConfig_sessionSink() {
	store := session.NewMemoryStore("expired-token")

	client, _ := api.NewClient(api.Config{
		BaseURL: "https://field-ops.internal.agrisight.io",
		Service: "field-ops",
		Session: store,
		Sink: session.SinkFunc(func(ctx context.Context) {
			// The composition root decides what invalidation means:
			// redirect to login, surface a banner, refresh the token.
			fmt.Println("session invalidated")
		}),
	})
	_ = client

	// Output:
}
