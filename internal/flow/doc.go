// File: internal/flow/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Flow-control state for the notification stream: whether the remote end
// accepts notifications, whether a send attempt is in flight, which
// connection is targeted, and a drain token that serializes send attempts
// without holding a lock across the link's send primitive.
package flow
