package internal

// App is the explicit application-state container: one instance wires
// the token store, API client, and the three state managers, and is
// passed by reference to whatever front end drives them. There are no
// ambient globals; navigation policy is injected through nav.
type App struct {
	Config   *Config
	Tokens   *TokenStore
	Client   *Client
	Session  *SessionManager
	Chat     *ChatManager
	Diagrams *DiagramManager
}

// NewApp wires an application state from a resolved configuration.
func NewApp(cfg *Config, nav Navigator) *App {
	tokens := NewTokenStore(cfg.TokenPath(), cfg.TokenTTL)
	client := NewClient(cfg.BaseURL, tokens, nav)
	session := NewSessionManager(client, tokens, nav)
	diagrams := NewDiagramManager(client, session)
	chat := NewChatManager(client, session, diagrams)

	return &App{
		Config:   cfg,
		Tokens:   tokens,
		Client:   client,
		Session:  session,
		Chat:     chat,
		Diagrams: diagrams,
	}
}
