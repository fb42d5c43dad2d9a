// Package opsconsole is a Go client for the opsconsole API.
//
//	client, _ := opsconsole.New("https://console.example.com",
//	    opsconsole.WithToken(token),
//	)
//	res, _ := client.ResolveScope(ctx, "/workspaces/12/usage", true)
//	if res.Outcome == opsconsole.OutcomeRedirectCanonical {
//	    fmt.Println("go to", res.Target)
//	}
//
//	view, _ := client.BudgetUsage(ctx, opsconsole.ScopeWorkspace, 12, "")
//	fmt.Println(view.Status, view.UsedDisplay, "of", view.PrimaryLimitDisplay)
package opsconsole
