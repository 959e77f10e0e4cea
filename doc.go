// Package entdoc declares strongly-typed entities backed by MongoDB.
//
// A schema lists the fields of an entity type with their declared type,
// document alias, defaults and validation rules. Writes go through a
// validation pipeline (synchronous field rules, then concurrent uniqueness
// checks against the store); reads accept filters, sorts and projections in
// entity-field vocabulary and translate them to document keys.
//
// # Entities
//
//	client, _ := entdoc.New(ctx, entdoc.WithURL("mongodb://localhost:27017/app"))
//	defer client.Close(ctx)
//
//	users, _ := client.Define("user", "users",
//	    entdoc.Field("name", entdoc.String, entdoc.Required(), entdoc.MinLength(3)),
//	    entdoc.Field("email", entdoc.String, entdoc.Alias("mail"), entdoc.Unique()),
//	    entdoc.Field("created_at", entdoc.Date, entdoc.WithDefault(entdoc.Now)),
//	)
//
//	u := entdoc.NewEntity(users, map[string]any{"name": "alice", "email": "a@x.io"})
//	err := client.Entities().Insert(ctx, u)
//
// # Typed models
//
//	type User struct {
//	    ID    primitive.ObjectID `entdoc:"_id"`
//	    Name  string             `entdoc:"name"`
//	    Email string             `entdoc:"email"`
//	}
//
//	m, _ := entdoc.NewModel[User](client, users)
//	_ = m.Insert(ctx, &User{Name: "bob", Email: "b@x.io"})
//	found, _ := m.Find(ctx, entdoc.Where{"email": "b@x.io"}, entdoc.FindOptions{})
package entdoc
