// Package accesssdk is the Go client for the linkgate HTTP API and holds the
// request and response types shared with the server.
//
// Owner operations need a bearer JWT from the host's identity provider:
//
//	c := accesssdk.NewClient("https://links.example.com")
//	owner := c.WithToken(jwt)
//	p, err := owner.CreateProject(ctx, accesssdk.CreateProjectRequest{Title: "Best man speech"})
//	inv, err := owner.CreateInvite(ctx, p.ID, accesssdk.CreateInviteRequest{Email: "a@example.com"})
//
// Guest operations take the raw token from a link:
//
//	view, err := c.OpenInvite(ctx, token)
//	acc, err := c.AcceptInvite(ctx, token, accesssdk.AcceptInviteRequest{Name: "Alex"})
//
// Every rejected guest link surfaces as ErrLinkInvalid, whatever the cause.
package accesssdk
