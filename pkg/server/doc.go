// Package server provides the HTTP server for the convoyd API.
//
// It uses gorilla/mux for routing. Every request passes through access
// logging, security headers and CORS before reaching a route.
//
// # Server Setup
//
//	srv := server.NewServer(server.Options{
//	    Config:   cfg,
//	    Subjects: gormstore.NewSubjectStore(db),
//	    Roles:    gormstore.NewRolesStore(db),
//	    Health:   gormstore.NewHealthStore(db),
//	    Issuer:   issuer,
//	    Verifier: verifier,
//	    Port:     "8080",
//	})
//	endpoints.RegisterAll(srv)
//	err := srv.Start(ctx)
//
// # Components
//
//   - Authenticator: verifies the bearer credential and loads the profile
//   - Gate: per-route permission checks
//   - Loader: identity loading with an optional profile cache
//
// # Endpoints
//
// Routes are registered by the endpoints subpackage:
//
//   - /auth/signup, /auth/signin - account creation and credential issue
//   - /auth/users/{userId}/activate, /auth/users/{userId}/role - account administration
//   - /roles, /roles/{id}, /roles/permissions - role and permission catalog
//   - /whoami - caller profile
package server
