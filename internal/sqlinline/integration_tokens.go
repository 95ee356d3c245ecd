package sqlinline

// Statements used by the provider credentials store. Every statement starts
// with a "--sql <uuid>" marker that the SQL runner logs instead of the text.

const QSelectProviderToken = `--sql 3c9f6a4e-2b1d-4e8a-9f0c-7d5e1a2b3c4d
select token
from integration_tokens
where provider = $1::text
  and token <> ''
limit 1;
`

const QUpsertProviderToken = `--sql 9e2a7b14-5c3d-4f6e-8a1b-0c2d3e4f5a6b
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`

const QEnsureIntegrationTokens = `--sql 5b8d2f60-7a41-4c9e-b3d2-1e6f9a0c8b75
create table if not exists integration_tokens (
    id uuid primary key default gen_random_uuid(),
    provider text not null unique,
    token text not null default '',
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
